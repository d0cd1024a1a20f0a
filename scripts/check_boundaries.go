package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const modulePath = "ivote"

// unit describes where a source file sits in the tree.
type unit struct {
	Path string
	// Service is the import path of the owning bounded context, empty
	// outside contexts/.
	Service string
	// Layer is the first directory below the service, or the platform
	// package path for files under internal/.
	Layer string
}

type rule struct {
	Message string
	Applies func(u unit) bool
	Rejects func(u unit, importPath string) bool
}

type finding struct {
	File    string
	Line    int
	Import  string
	Message string
}

var rules = []rule{
	{
		Message: "a bounded context may not import another context",
		Applies: inContext,
		Rejects: func(u unit, importPath string) bool {
			return under(importPath, modulePath+"/contexts") && !under(importPath, u.Service)
		},
	},
	{
		Message: "domain may import only the standard library and its own domain packages",
		Applies: inLayer("domain"),
		Rejects: func(u unit, importPath string) bool {
			return !isStdlib(importPath) && !under(importPath, u.Service+"/domain")
		},
	},
	{
		Message: "ports may import only the standard library, domain and ports",
		Applies: inLayer("ports"),
		Rejects: func(u unit, importPath string) bool {
			return !isStdlib(importPath) && !underAny(importPath, u.Service+"/domain", u.Service+"/ports")
		},
	},
	{
		Message: "application may import only the standard library, domain, ports and application",
		Applies: inLayer("application"),
		Rejects: func(u unit, importPath string) bool {
			return !isStdlib(importPath) &&
				!underAny(importPath, u.Service+"/domain", u.Service+"/ports", u.Service+"/application")
		},
	},
	{
		Message: "transport DTOs may import only the standard library and domain",
		Applies: inLayer("transport"),
		Rejects: func(u unit, importPath string) bool {
			return !isStdlib(importPath) && !underAny(importPath, u.Service+"/domain", u.Service+"/transport")
		},
	},
	{
		Message: "core layers must not import adapters",
		Applies: inLayer("domain", "ports", "application", "transport"),
		Rejects: func(u unit, importPath string) bool {
			return under(importPath, u.Service+"/adapters")
		},
	},
	{
		Message: "core layers must not import platform or command packages",
		Applies: inLayer("domain", "ports", "application", "transport"),
		Rejects: func(_ unit, importPath string) bool {
			return underAny(importPath, modulePath+"/internal", modulePath+"/cmd")
		},
	},
	{
		Message: "only the composition root may import context adapters or use cases",
		Applies: func(u unit) bool {
			return u.Service == "" && !under(u.Layer, "internal/app/bootstrap")
		},
		Rejects: func(_ unit, importPath string) bool {
			if !under(importPath, modulePath+"/contexts") {
				return false
			}
			return strings.Contains(importPath, "/adapters/") || strings.Contains(importPath, "/application")
		},
	},
}

func main() {
	var findings []finding
	for _, root := range []string{"contexts", "internal"} {
		findings = append(findings, scanTree(root)...)
	}
	if len(findings) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	sort.Slice(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Message != b.Message {
			return a.Message < b.Message
		}
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Line < b.Line
	})

	current := ""
	for _, f := range findings {
		if f.Message != current {
			current = f.Message
			fmt.Printf("%s:\n", current)
		}
		fmt.Printf("  %s:%d %s\n", f.File, f.Line, f.Import)
	}
	os.Exit(1)
}

func scanTree(root string) []finding {
	var findings []finding
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		u, ok := classify(filepath.ToSlash(path))
		if !ok {
			return nil
		}
		findings = append(findings, checkFile(path, u)...)
		return nil
	})
	return findings
}

// classify maps contexts/<context>/<service>/<layer>/... and internal/...
// paths to a unit. Files at a service root belong to no layer.
func classify(slashPath string) (unit, bool) {
	parts := strings.Split(slashPath, "/")
	switch parts[0] {
	case "contexts":
		if len(parts) < 4 {
			return unit{}, false
		}
		u := unit{
			Path:    slashPath,
			Service: strings.Join(append([]string{modulePath}, parts[:3]...), "/"),
		}
		if len(parts) > 4 {
			u.Layer = parts[3]
		}
		return u, true
	case "internal":
		return unit{Path: slashPath, Layer: filepath.ToSlash(filepath.Dir(slashPath))}, true
	}
	return unit{}, false
}

func checkFile(path string, u unit) []finding {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return []finding{{File: u.Path, Line: 1, Message: "file does not parse: " + err.Error()}}
	}

	var findings []finding
	for _, r := range rules {
		if !r.Applies(u) {
			continue
		}
		for _, spec := range file.Imports {
			importPath := strings.Trim(spec.Path.Value, `"`)
			if r.Rejects(u, importPath) {
				findings = append(findings, finding{
					File:    u.Path,
					Line:    fset.Position(spec.Pos()).Line,
					Import:  importPath,
					Message: r.Message,
				})
			}
		}
	}
	return findings
}

func inContext(u unit) bool {
	return u.Service != ""
}

func inLayer(layers ...string) func(unit) bool {
	return func(u unit) bool {
		if u.Service == "" {
			return false
		}
		for _, layer := range layers {
			if u.Layer == layer {
				return true
			}
		}
		return false
	}
}

func under(importPath string, prefix string) bool {
	return importPath == prefix || strings.HasPrefix(importPath, prefix+"/")
}

func underAny(importPath string, prefixes ...string) bool {
	for _, prefix := range prefixes {
		if under(importPath, prefix) {
			return true
		}
	}
	return false
}

// isStdlib reports whether importPath has no dot in its first element and
// is outside this module.
func isStdlib(importPath string) bool {
	if under(importPath, modulePath) {
		return false
	}
	first, _, _ := strings.Cut(importPath, "/")
	return !strings.Contains(first, ".")
}
