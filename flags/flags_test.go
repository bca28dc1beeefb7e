package flags_test

import (
	"testing"

	"github.com/leftmike/tinydb/flags"
)

func TestFlags(t *testing.T) {
	flgs := flags.Default()
	if !flgs.GetFlag(flags.StrictClauses) {
		t.Errorf("GetFlag(StrictClauses) got false want true")
	}

	f, ok := flags.LookupFlag("STRICT_CLAUSES")
	if !ok || f != flags.StrictClauses {
		t.Errorf("LookupFlag(STRICT_CLAUSES) got %d, %v want %d", f, ok, flags.StrictClauses)
	}
	if _, ok := flags.LookupFlag("pushdown_where"); ok {
		t.Errorf("LookupFlag(pushdown_where) found a flag")
	}

	flgs.SetFlag(f, false)
	if flgs.GetFlag(flags.StrictClauses) {
		t.Errorf("GetFlag(StrictClauses) after SetFlag(false) got true")
	}
	if !flags.Default().GetFlag(flags.StrictClauses) {
		t.Errorf("SetFlag changed the default flags")
	}

	var cnt int
	flags.ListFlags(
		func(nam string, f flags.Flag) {
			cnt += 1
		})
	if cnt != 1 {
		t.Errorf("ListFlags() got %d flags want 1", cnt)
	}
}
