// Package forge generates the boilerplate that exposes a Go smart contract
// package to the Dusk VM calling convention.
//
// A contract package is an ordinary Go package containing exactly one struct
// marked with the forge:contract directive. The struct holds the contract's
// persistent state, and its exported methods form the contract's public
// surface:
//
//	//forge:contract
//	type Counter struct {
//		value int64
//	}
//
//	func (c Counter) ReadValue() int64 { return c.value }
//
//	func (c *Counter) Increment() { c.value++ }
//
// Running the generator over the package emits a sibling file containing a
// single package-level state cell plus one exported dispatch function per
// public method. Each dispatch function has the VM entry-point shape
// (argument length in, response handle out) and delegates argument decoding,
// state access and result encoding to the external ABI package:
//
//	//go:wasmexport increment
//	func Increment(argLen uint32) uint32 {
//		return abi.WrapCall(argLen, func(abi.Unit) abi.Unit {
//			state.Increment()
//			return abi.Unit{}
//		})
//	}
//
// # Receivers
//
// A value receiver declares read access to the state cell, a pointer receiver
// declares mutate access. The VM serializes calls into a contract instance,
// so the generated accessors need no synchronization of their own; the
// receiver form only records the method's intent.
//
// # State initialization
//
// The state cell is the struct's zero value. If the package declares a
// niladic constructor named New<Type> returning <Type>, the cell is
// initialized with it instead. These are the only two construction paths.
//
// # Determinism
//
// Output is deterministic: dispatch functions appear in method declaration
// order and re-running the generator on unchanged input produces
// byte-identical output.
//
// # Usage
//
// Typically invoked through go:generate:
//
//	//go:generate go run github.com/dusk-network/go-forge/cmd/forge -dir .
//
// or programmatically:
//
//	contract, err := forge.ParseDir(".")
//	if err != nil {
//		log.Fatal(err)
//	}
//	src, err := forge.Generate(contract)
package forge

import (
	"os"
	"path/filepath"
)

// Generate produces the generated source for a parsed contract.
func Generate(contract *Contract, opts ...Option) ([]byte, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	file, err := newEmitter(contract, cfg).emit()
	if err != nil {
		return nil, err
	}
	return encodeFile(file, cfg)
}

// GenerateDir parses the contract package in dir and generates its
// boilerplate in one step.
func GenerateDir(dir string, opts ...Option) ([]byte, error) {
	contract, err := ParseDir(dir)
	if err != nil {
		return nil, err
	}
	return Generate(contract, opts...)
}

// Write generates the boilerplate for the contract package in dir and writes
// it next to the package sources. It returns the path of the written file.
func Write(dir string, opts ...Option) (string, error) {
	contract, err := ParseDir(dir)
	if err != nil {
		return "", err
	}
	return WriteContract(contract, opts...)
}

// WriteContract writes the generated boilerplate for an already parsed
// contract into its package directory. It returns the path of the written
// file.
func WriteContract(contract *Contract, opts ...Option) (string, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	file, err := newEmitter(contract, cfg).emit()
	if err != nil {
		return "", err
	}
	src, err := encodeFile(file, cfg)
	if err != nil {
		return "", err
	}

	name := cfg.fileName
	if name == "" {
		name = contract.Package() + generatedSuffix
	}
	path := filepath.Join(contract.Dir(), name)
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
