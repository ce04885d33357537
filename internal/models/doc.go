// Package models defines the domain entities moved between the directory
// service and the PSA.
//
// The types mirror the two vendors' flat contact records:
//   - [Organization] : IT Glue organization with its adapter sync flags and
//     the Autotask company it maps to
//   - [Contact] : source contact with the fields Autotask requires
//   - [Company] : Autotask company record, the creation target
//   - [Candidate] : a contact that survived filtering, bound to its company
//
// Everything here is read-only once fetched; the only write the tool
// performs is contact creation on the PSA side.
package models
