// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command wgslc compiles WGSL shaders to SPIR-V, resolving
// #include lines relative to each file. With no file arguments
// it compiles the built-in mesh shader.
//
//	wgslc [-o dir] [file.wgsl ...]
package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/gpudemo/gpu"
	"cogentcore.org/gpudemo/shaders"
)

var (
	outDir  = flag.String("o", "", "output directory, default is next to each input")
	verbose = flag.Bool("v", false, "debug logging")
)

func main() {
	flag.Parse()
	if *verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	failed := false
	if flag.NArg() == 0 {
		code, err := shaders.Open(shaders.FS, shaders.Mesh)
		if errors.Log(err) != nil {
			os.Exit(1)
		}
		failed = errors.Log(compile(code, filepath.Join(*outDir, spvName(shaders.Mesh)))) != nil
	}
	for _, fn := range flag.Args() {
		if errors.Log(compileFile(fn)) != nil {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func spvName(fn string) string {
	return strings.TrimSuffix(filepath.Base(fn), filepath.Ext(fn)) + ".spv"
}

func compileFile(fn string) error {
	b, err := os.ReadFile(fn)
	if err != nil {
		return err
	}
	dir := filepath.Dir(fn)
	code := gpu.IncludeFS(os.DirFS(dir), ".", string(b))
	out := *outDir
	if out == "" {
		out = dir
	}
	return compile(code, filepath.Join(out, spvName(fn)))
}

func compile(code, out string) error {
	spv, err := shaders.Compile(code)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, spv, 0666); err != nil {
		return err
	}
	slog.Info("wgslc: wrote", "file", out, "bytes", len(spv))
	return nil
}
