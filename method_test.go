package forge

import "testing"

func TestAccessString(t *testing.T) {
	if AccessRead.String() != "read" {
		t.Errorf("Expected read, got %s", AccessRead)
	}
	if AccessMutate.String() != "mutate" {
		t.Errorf("Expected mutate, got %s", AccessMutate)
	}
}

func TestMethodAccessors(t *testing.T) {
	contract := parseCounter(t)

	t.Run("niladic read method", func(t *testing.T) {
		m := contract.Method("ReadValue")

		if m.ExportName() != "read_value" {
			t.Errorf("Expected read_value, got %s", m.ExportName())
		}
		if m.Access() != AccessRead {
			t.Errorf("Expected read access, got %v", m.Access())
		}
		if m.HasParams() {
			t.Error("Expected no parameters")
		}
		if !m.HasResult() {
			t.Error("Expected a result")
		}
		if m.Index() != 0 {
			t.Errorf("Expected index 0, got %d", m.Index())
		}
	})

	t.Run("mutating method with parameter", func(t *testing.T) {
		m := contract.Method("IncrementBy")

		if m.Access() != AccessMutate {
			t.Errorf("Expected mutate access, got %v", m.Access())
		}
		if !m.HasParams() {
			t.Fatal("Expected parameters")
		}
		if m.Params()[0].Name != "delta" {
			t.Errorf("Expected delta, got %s", m.Params()[0].Name)
		}
		if m.HasResult() {
			t.Error("Expected no result")
		}
		if m.Position().Line == 0 {
			t.Error("Expected declaration position to be set")
		}
	})
}
