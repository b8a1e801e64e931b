package frontend

import (
	"go/scanner"
	"go/types"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/tools/go/packages"

	"github.com/gosc-lang/gosc/errors"
)

func diagnostic(code errors.ErrorCode, msg, filename string, line, column int) *errors.CompileError {
	return errors.Newf(errors.Frontend, code, "%s", msg).At(filename, line, column)
}

// combine returns nil, the only error, or all of them aggregated.
func combine(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}
	var result *multierror.Error
	for _, err := range errs {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

func syntaxErrors(err error) error {
	list, ok := err.(scanner.ErrorList)
	if !ok {
		return diagnostic(errors.E1001, err.Error(), "", 0, 0)
	}
	errs := make([]error, 0, len(list))
	for _, e := range list {
		errs = append(errs, diagnostic(errors.E1001, e.Msg, e.Pos.Filename, e.Pos.Line, e.Pos.Column))
	}
	return combine(errs)
}

func typeErrors(list []error) error {
	errs := make([]error, 0, len(list))
	for _, err := range list {
		te, ok := err.(types.Error)
		if !ok {
			errs = append(errs, diagnostic(errors.E1002, err.Error(), "", 0, 0))
			continue
		}
		pos := te.Fset.Position(te.Pos)
		errs = append(errs, diagnostic(errors.E1002, te.Msg, pos.Filename, pos.Line, pos.Column))
	}
	return combine(errs)
}

func loadError(err error) error {
	return diagnostic(errors.E1003, err.Error(), "", 0, 0)
}

// packageErrors collects the errors reported for pkgs and their
// dependencies.
func packageErrors(pkgs []*packages.Package) error {
	var errs []error
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			code := errors.E1003
			switch e.Kind {
			case packages.ParseError:
				code = errors.E1001
			case packages.TypeError:
				code = errors.E1002
			}
			filename, line, column := splitPos(e.Pos)
			errs = append(errs, diagnostic(code, e.Msg, filename, line, column))
		}
	})
	return combine(errs)
}

// splitPos splits a "file:line:column" position as reported by go list.
// Missing parts are left zero.
func splitPos(pos string) (string, int, int) {
	if pos == "" || pos == "-" {
		return "", 0, 0
	}
	var nums []int
	for len(nums) < 2 {
		i := strings.LastIndex(pos, ":")
		if i < 0 {
			break
		}
		n, err := strconv.Atoi(pos[i+1:])
		if err != nil {
			break
		}
		nums = append([]int{n}, nums...)
		pos = pos[:i]
	}
	switch len(nums) {
	case 2:
		return pos, nums[0], nums[1]
	case 1:
		return pos, nums[0], 0
	default:
		return pos, 0, 0
	}
}
