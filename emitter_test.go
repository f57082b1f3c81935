package forge

import (
	"bytes"
	"go/parser"
	"go/token"
	"strings"
	"testing"
)

// generate is a test helper running the full parse+emit pipeline.
func generate(t *testing.T, files map[string]string, opts ...Option) []byte {
	t.Helper()
	dir := writePackage(t, files)
	src, err := GenerateDir(dir, opts...)
	if err != nil {
		t.Fatalf("GenerateDir failed: %v", err)
	}
	return src
}

func TestGenerate(t *testing.T) {
	t.Run("output is valid Go", func(t *testing.T) {
		src := generate(t, map[string]string{"counter.go": counterSrc})

		fset := token.NewFileSet()
		if _, err := parser.ParseFile(fset, "counter_forge.go", src, parser.ParseComments); err != nil {
			t.Fatalf("Generated source does not parse: %v\n%s", err, src)
		}
	})

	t.Run("carries the generated-code marker", func(t *testing.T) {
		src := generate(t, map[string]string{"counter.go": counterSrc})

		if !bytes.HasPrefix(src, []byte("// Code generated by forge. DO NOT EDIT.\n")) {
			t.Errorf("Expected generated-code marker, got:\n%s", src[:60])
		}
	})

	t.Run("emits one state cell", func(t *testing.T) {
		src := string(generate(t, map[string]string{"counter.go": counterSrc}))

		if !strings.Contains(src, "var state Counter") {
			t.Error("Expected zero-value state cell")
		}
		if count := strings.Count(src, "var state"); count != 1 {
			t.Errorf("Expected exactly one state cell, got %d", count)
		}
	})

	t.Run("emits one dispatch function per method in source order", func(t *testing.T) {
		src := string(generate(t, map[string]string{"counter.go": counterSrc}))

		exports := []string{
			"//go:wasmexport read_value",
			"//go:wasmexport increment\n",
			"//go:wasmexport increment_by",
		}
		last := -1
		for _, directive := range exports {
			idx := strings.Index(src, directive)
			if idx < 0 {
				t.Fatalf("Expected directive %q in output", directive)
			}
			if idx < last {
				t.Errorf("Directive %q out of declaration order", directive)
			}
			last = idx
		}
		if count := strings.Count(src, "//go:wasmexport"); count != 3 {
			t.Errorf("Expected 3 exports, got %d", count)
		}
	})

	t.Run("dispatch functions have the entry-point shape", func(t *testing.T) {
		src := string(generate(t, map[string]string{"counter.go": counterSrc}))

		for _, fn := range []string{"ReadValue", "Increment", "IncrementBy"} {
			want := "func " + fn + "(argLen uint32) uint32 {"
			if !strings.Contains(src, want) {
				t.Errorf("Expected %q in output", want)
			}
		}
	})

	t.Run("delegates to the ABI wrap-call primitive", func(t *testing.T) {
		src := string(generate(t, map[string]string{"counter.go": counterSrc}))

		if !strings.Contains(src, `"github.com/dusk-network/dusk-go/abi"`) {
			t.Error("Expected default ABI import")
		}
		if count := strings.Count(src, "abi.WrapCall(argLen, func("); count != 3 {
			t.Errorf("Expected 3 wrap calls, got %d", count)
		}
	})

	t.Run("methods with parameters get an args struct", func(t *testing.T) {
		src := string(generate(t, map[string]string{"counter.go": counterSrc}))

		if !strings.Contains(src, "type incrementByArgs struct") {
			t.Error("Expected args struct for IncrementBy")
		}
		if !strings.Contains(src, "state.IncrementBy(args.Delta)") {
			t.Error("Expected invocation with decoded argument")
		}
	})

	t.Run("methods without parameters take the unit payload", func(t *testing.T) {
		src := string(generate(t, map[string]string{"counter.go": counterSrc}))

		if !strings.Contains(src, "func(abi.Unit) int64") {
			t.Error("Expected unit payload for ReadValue")
		}
		if strings.Contains(src, "type readValueArgs") || strings.Contains(src, "type incrementArgs") {
			t.Error("Niladic methods must not get args structs")
		}
	})

	t.Run("methods without results return the unit value", func(t *testing.T) {
		src := string(generate(t, map[string]string{"counter.go": counterSrc}))

		if !strings.Contains(src, "return abi.Unit{}") {
			t.Error("Expected unit return for void methods")
		}
	})

	t.Run("records read and mutate access", func(t *testing.T) {
		src := string(generate(t, map[string]string{"counter.go": counterSrc}))

		if !strings.Contains(src, "(read access)") {
			t.Error("Expected read access note for ReadValue")
		}
		if !strings.Contains(src, "(mutate access)") {
			t.Error("Expected mutate access note for Increment")
		}
	})

	t.Run("constructor initializes the state cell", func(t *testing.T) {
		src := string(generate(t, map[string]string{"vault.go": `package vault

//forge:contract
type Vault struct {
	total uint64
}

func NewVault() Vault {
	return Vault{total: 100}
}

func (v Vault) Total() uint64 { return v.total }
`}))

		if !strings.Contains(src, "var state = NewVault()") {
			t.Errorf("Expected constructor-initialized state cell, got:\n%s", src)
		}
	})

	t.Run("carries signature imports into the output", func(t *testing.T) {
		src := string(generate(t, map[string]string{"clock.go": `package clock

import "time"

//forge:contract
type Clock struct {
	when time.Time
}

func (c Clock) When() time.Time { return c.when }

func (c *Clock) SetWhen(when time.Time) { c.when = when }
`}))

		if !strings.Contains(src, `"time"`) {
			t.Error("Expected time import in generated output")
		}
		if !strings.Contains(src, "When time.Time") {
			t.Error("Expected time.Time field in args struct")
		}
	})

	t.Run("synthesizes names for unnamed parameters", func(t *testing.T) {
		src := string(generate(t, map[string]string{"sink.go": `package sink

//forge:contract
type Sink struct {
	last int64
}

func (s *Sink) Push(int64) {}

func (s Sink) Last() int64 { return s.last }
`}))

		if !strings.Contains(src, "Arg0 int64") {
			t.Errorf("Expected synthesized Arg0 field, got:\n%s", src)
		}
		if !strings.Contains(src, "state.Push(args.Arg0)") {
			t.Error("Expected invocation with synthesized argument")
		}
	})
}

func TestGenerateDeterministic(t *testing.T) {
	dir := writePackage(t, map[string]string{"counter.go": counterSrc})

	first, err := GenerateDir(dir)
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	second, err := GenerateDir(dir)
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("Expected byte-identical output across runs")
	}
}

func TestGenerateDirRejectsInvalid(t *testing.T) {
	dir := writePackage(t, map[string]string{"two.go": `package two

//forge:contract
type First struct{}

//forge:contract
type Second struct{}
`})

	if _, err := GenerateDir(dir); !IsStructureError(err) {
		t.Fatalf("Expected structural error, got %v", err)
	}
}
