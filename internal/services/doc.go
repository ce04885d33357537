// Package services defines the [Directory] and [PSA] interfaces and
// implements them for IT Glue and Autotask.
//
// # Directory Interface
//
// The source side of the sync. [ITGlueService] implements it against the
// IT Glue JSON:API: organizations are paged through with their adapter
// resources included, and only organizations syncing with both the
// directory adapter and the PSA adapter are returned. Contacts are fetched
// per organization, again paged, with contact methods and license tags
// included.
//
// Requests against IT Glue are rate limited client side with
// [golang.org/x/time/rate]; the API allows 10 requests per second and the
// default limiter stays just under that.
//
// # PSA Interface
//
// The target side. [AutotaskService] implements it against the Autotask
// REST API using the integration-code/username/secret header triplet.
// Existing companies and contact emails are paged through via the query
// endpoints to build the dedupe index, and contact creation posts under
// /Companies/{id}/Contacts.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrAuthFailed] : 401/403 from either vendor, a configuration error
//   - [shared.ErrAPIRequest] : any other non-success response
package services
