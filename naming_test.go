package forge

import "testing"

func TestExportName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ReadValue", "read_value"},
		{"Increment", "increment"},
		{"IncrementBy", "increment_by"},
		{"OwnerID", "owner_id"},
		{"HTTPCall", "http_call"},
		{"READValue", "read_value"},
		{"A", "a"},
		{"Transfer2", "transfer2"},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			if got := exportName(c.in); got != c.want {
				t.Errorf("exportName(%q) = %q, expected %q", c.in, got, c.want)
			}
		})
	}
}

func TestArgsTypeName(t *testing.T) {
	if got := argsTypeName("IncrementBy"); got != "incrementByArgs" {
		t.Errorf("Expected incrementByArgs, got %s", got)
	}
	if got := argsTypeName("Transfer"); got != "transferArgs" {
		t.Errorf("Expected transferArgs, got %s", got)
	}
}

func TestFieldName(t *testing.T) {
	if got := fieldName("delta"); got != "Delta" {
		t.Errorf("Expected Delta, got %s", got)
	}
	if got := fieldName("arg0"); got != "Arg0" {
		t.Errorf("Expected Arg0, got %s", got)
	}
}
