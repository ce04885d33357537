package models

import "testing"

func TestContactValidate(t *testing.T) {
	tc := []struct {
		name    string
		contact Contact
		wantErr bool
	}{
		{
			name:    "complete contact",
			contact: Contact{ID: "c1", FirstName: "Jane", LastName: "Doe", Email: "jane@x.com"},
			wantErr: false,
		},
		{
			name:    "missing first name",
			contact: Contact{ID: "c2", LastName: "Doe", Email: "jane@x.com"},
			wantErr: true,
		},
		{
			name:    "missing last name",
			contact: Contact{ID: "c3", FirstName: "Jane", Email: "jane@x.com"},
			wantErr: true,
		},
		{
			name:    "missing email",
			contact: Contact{ID: "c4", FirstName: "Jane", LastName: "Doe"},
			wantErr: true,
		},
		{
			name:    "whitespace-only email",
			contact: Contact{ID: "c5", FirstName: "Jane", LastName: "Doe", Email: "   "},
			wantErr: true,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.contact.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOrganizationDualSync(t *testing.T) {
	tc := []struct {
		name string
		org  Organization
		want bool
	}{
		{"both enabled", Organization{DirectorySync: true, PSASync: true}, true},
		{"directory only", Organization{DirectorySync: true}, false},
		{"psa only", Organization{PSASync: true}, false},
		{"neither", Organization{}, false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.org.DualSync(); got != tt.want {
				t.Errorf("DualSync() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContactDisplayName(t *testing.T) {
	c := Contact{FirstName: "Jane", LastName: "Doe"}
	if c.DisplayName() != "Jane Doe" {
		t.Errorf("DisplayName() = %q, want %q", c.DisplayName(), "Jane Doe")
	}

	c = Contact{LastName: "Doe"}
	if c.DisplayName() != "Doe" {
		t.Errorf("DisplayName() = %q, want %q", c.DisplayName(), "Doe")
	}
}
