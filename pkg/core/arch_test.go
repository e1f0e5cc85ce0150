package core_test

import (
	"go/ast"
	"go/parser"
	gotoken "go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const modulePath = "github.com/rimecore/rimecore"

// TestArchitecture_NoTypeAliasReexports ensures no package re-exports core
// types via aliases, which would let two packages appear to provide the
// same type under different names.
func TestArchitecture_NoTypeAliasReexports(t *testing.T) {
	projectRoot := findProjectRoot(t)

	dirsToScan := []string{
		filepath.Join(projectRoot, "pkg"),
		filepath.Join(projectRoot, "internal"),
	}

	for _, root := range dirsToScan {
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}

			relPath, _ := filepath.Rel(projectRoot, path)
			if relPath == "pkg/core" || strings.HasPrefix(relPath, "pkg/core/") {
				return nil
			}

			checkNoCoreReexports(t, path, relPath)
			return nil
		})
		if err != nil {
			t.Fatalf("failed to walk directory %s: %v", root, err)
		}
	}
}

func checkNoCoreReexports(t *testing.T, dir, relPath string) {
	t.Helper()

	fset := gotoken.NewFileSet()
	pkgs, err := parser.ParseDir(fset, dir, func(fi os.FileInfo) bool {
		return strings.HasSuffix(fi.Name(), ".go")
	}, parser.ParseComments)
	if err != nil {
		return
	}

	for _, pkg := range pkgs {
		for _, file := range pkg.Files {
			coreLocalName := findCoreImportName(file)
			if coreLocalName == "" {
				continue
			}

			ast.Inspect(file, func(n ast.Node) bool {
				switch x := n.(type) {
				case *ast.TypeSpec:
					if x.Assign.IsValid() && isCoreReference(x.Type, coreLocalName) {
						typeName := extractTypeName(x.Type)
						t.Errorf("alias violation: %s\n"+
							"    type alias %q = %s.%s re-exports a core type; use core.%s directly",
							fset.Position(x.Pos()), x.Name.Name, coreLocalName, typeName, typeName)
					}
				case *ast.ValueSpec:
					for i, val := range x.Values {
						if isCoreReference(val, coreLocalName) {
							varName := ""
							if i < len(x.Names) {
								varName = x.Names[i].Name
							}
							typeName := extractTypeName(val)
							t.Errorf("alias violation: %s\n"+
								"    re-export %s = %s.%s smuggles a core value; use core.%s directly",
								fset.Position(val.Pos()), varName, coreLocalName, typeName, typeName)
						}
					}
				}
				return true
			})
		}
	}
}

func findCoreImportName(file *ast.File) string {
	for _, imp := range file.Imports {
		path := strings.Trim(imp.Path.Value, `"`)
		if strings.HasSuffix(path, "pkg/core") {
			if imp.Name != nil {
				return imp.Name.Name
			}
			return "core"
		}
	}
	return ""
}

func isCoreReference(expr ast.Expr, coreLocalName string) bool {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	ident, ok := sel.X.(*ast.Ident)
	return ok && ident.Name == coreLocalName
}

func extractTypeName(expr ast.Expr) string {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok {
		return "?"
	}
	return sel.Sel.Name
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (no go.mod found)")
		}
		dir = parent
	}
}

// TestArchitecture_CoreImportsStdlibOnly enforces the Golden Rule: pkg/core
// may only import the standard library, so every other package can depend
// on it without pulling in a third-party stack transitively.
func TestArchitecture_CoreImportsStdlibOnly(t *testing.T) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports}
	pkgs, err := packages.Load(cfg, modulePath+"/pkg/core")
	if err != nil {
		t.Fatalf("failed to load pkg/core: %v", err)
	}
	if len(pkgs) == 0 {
		t.Fatal("pkg/core not found")
	}

	for imp := range pkgs[0].Imports {
		if isStdlib(imp) {
			continue
		}
		t.Errorf("golden rule violation: pkg/core imports %q; pkg/core may only import the standard library", imp)
	}
}

// isStdlib is a heuristic: standard library import paths have no dot in
// their first path segment, third-party ones do (a host name).
func isStdlib(importPath string) bool {
	first := importPath
	if i := strings.Index(importPath, "/"); i >= 0 {
		first = importPath[:i]
	}
	return !strings.Contains(first, ".")
}

// TestArchitecture_PipelineDoesNotReexportCore ensures the orchestration
// layer consumes core types directly rather than wrapping them in local
// aliases, the specific case the reexport test generalizes from.
func TestArchitecture_PipelineDoesNotReexportCore(t *testing.T) {
	projectRoot := findProjectRoot(t)
	checkNoCoreReexports(t, filepath.Join(projectRoot, "internal", "pipeline"), "internal/pipeline")
	checkNoCoreReexports(t, filepath.Join(projectRoot, "internal", "session"), "internal/session")
}
