// Command forge generates Dusk VM dispatch boilerplate for the contract
// package in a directory. It is intended to be run through go:generate:
//
//	//go:generate go run github.com/dusk-network/go-forge/cmd/forge -dir .
package main

import (
	"errors"
	"flag"
	"os"

	"github.com/rs/zerolog"

	forge "github.com/dusk-network/go-forge"
)

func main() {
	var (
		dir     string
		out     string
		abiPath string
		cell    string
		stdout  bool
		verbose bool
	)
	flag.StringVar(&dir, "dir", ".", "contract package directory")
	flag.StringVar(&out, "out", "", "output file name (default <package>_forge.go)")
	flag.StringVar(&abiPath, "abi", forge.DefaultABIPackage, "ABI package import path")
	flag.StringVar(&cell, "cell", "", "state cell identifier (default \"state\")")
	flag.BoolVar(&stdout, "stdout", false, "write generated source to stdout instead of a file")
	flag.BoolVar(&verbose, "verbose", false, "log parsed contract details")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !verbose {
		log = log.Level(zerolog.WarnLevel)
	}

	contract, err := forge.ParseDir(dir)
	if err != nil {
		fail(log, err)
	}
	log.Info().
		Str("contract", contract.Name()).
		Str("package", contract.Package()).
		Int("methods", contract.Len()).
		Bool("constructor", contract.HasConstructor()).
		Msg("parsed contract")

	opts := []forge.Option{
		forge.WithABIPackage(abiPath),
		forge.WithCellName(cell),
		forge.WithFileName(out),
	}

	if stdout {
		src, err := forge.Generate(contract, opts...)
		if err != nil {
			fail(log, err)
		}
		if _, err := os.Stdout.Write(src); err != nil {
			fail(log, err)
		}
		return
	}

	path, err := forge.WriteContract(contract, opts...)
	if err != nil {
		fail(log, err)
	}
	log.Info().Str("path", path).Msg("wrote dispatch boilerplate")
}

func fail(log zerolog.Logger, err error) {
	var se forge.StructureError
	if errors.As(err, &se) {
		log.Error().
			Str("rule", se.Rule()).
			Str("position", se.Position().String()).
			Msg(se.Error())
	} else {
		log.Error().Msg(err.Error())
	}
	os.Exit(1)
}
