// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"go/build/constraint"
	"go/parser"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileTags returns whether the file is built with the given tags
// on linux/amd64.
func fileTags(t *testing.T, fn string, tags ...string) (bool, []string) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, fn, nil, parser.ImportsOnly|parser.ParseComments)
	require.NoError(t, err)
	var imports []string
	for _, im := range f.Imports {
		p, err := strconv.Unquote(im.Path.Value)
		require.NoError(t, err)
		imports = append(imports, p)
	}
	set := map[string]bool{"linux": true, "amd64": true, "unix": true, "cgo": true}
	for _, tg := range tags {
		set[tg] = true
	}
	for _, cg := range f.Comments {
		if cg.Pos() > f.Package {
			break
		}
		for _, c := range cg.List {
			if !constraint.IsGoBuild(c.Text) {
				continue
			}
			expr, err := constraint.Parse(c.Text)
			require.NoError(t, err)
			return expr.Eval(func(tag string) bool { return set[tag] }), imports
		}
	}
	return true, imports
}

func TestOffscreenBuild(t *testing.T) {
	var files []string
	for _, dir := range []string{".", "../input", "../asset", "../render", "../frame"} {
		fs, err := filepath.Glob(filepath.Join(dir, "*.go"))
		require.NoError(t, err)
		files = append(files, fs...)
	}
	require.NotEmpty(t, files)
	windowed := 0
	for _, fn := range files {
		desktop, imports := fileTags(t, fn)
		offscreen, _ := fileTags(t, fn, "offscreen")
		for _, im := range imports {
			if !strings.Contains(im, "glfw") {
				continue
			}
			windowed++
			assert.True(t, desktop, "%s should build on desktop", fn)
			assert.False(t, offscreen, "%s imports %s without an offscreen constraint", fn, im)
		}
	}
	assert.Equal(t, 4, windowed)
}
