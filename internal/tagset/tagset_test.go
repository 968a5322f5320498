package tagset

import (
	"errors"
	"reflect"
	"testing"

	"github.com/starford/ficor/internal/apperr"
)

func TestParse_Basic(t *testing.T) {
	got := Parse("work:urgent")
	want := TagSet{"work", "urgent"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse = %v, want %v", got, want)
	}
}

func TestParse_EmptyIsNoFilter(t *testing.T) {
	if got := Parse(""); len(got) != 0 {
		t.Errorf("Parse(\"\") = %v, want empty", got)
	}
}

func TestParse_DropsEmptySegments(t *testing.T) {
	got := Parse(":a::b:")
	want := TagSet{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse = %v, want %v", got, want)
	}
}

func TestIsSubset(t *testing.T) {
	tags := TagSet{"a", "b", "c"}
	if !IsSubset(tags, Parse("a:b")) {
		t.Error("a:b should be a subset of a,b,c")
	}
	if IsSubset(tags, Parse("a:d")) {
		t.Error("a:d should not be a subset of a,b,c")
	}
	if !IsSubset(tags, nil) {
		t.Error("empty filter should be a subset")
	}
	if !IsSubset(nil, nil) {
		t.Error("empty filter should be a subset of empty tags")
	}
}

func TestIsDisjoint(t *testing.T) {
	tags := TagSet{"a", "b", "c"}
	if !IsDisjoint(tags, Parse("d:e")) {
		t.Error("d:e should be disjoint from a,b,c")
	}
	if IsDisjoint(tags, Parse("a:d")) {
		t.Error("a:d should not be disjoint from a,b,c")
	}
	if !IsDisjoint(tags, nil) {
		t.Error("empty filter should be disjoint")
	}
}

func TestPredicates_CaseSensitive(t *testing.T) {
	tags := TagSet{"Work"}
	if IsSubset(tags, TagSet{"work"}) {
		t.Error("matching must be case-sensitive")
	}
}

func TestWithout_PreservesOrder(t *testing.T) {
	tags := TagSet{"a", "b", "c", "b", "d"}
	got := tags.Without(Parse("b:d"))
	want := TagSet{"a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Without = %v, want %v", got, want)
	}
	if len(tags) != 5 {
		t.Error("Without must not modify the receiver")
	}
}

func TestString(t *testing.T) {
	if s := (TagSet{"x", "y"}).String(); s != "x:y" {
		t.Errorf("String = %q", s)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate("ok"); err != nil {
		t.Fatalf("valid tag rejected: %v", err)
	}
	for _, bad := range []string{"", "a:b", "nul\x00"} {
		err := Validate(bad)
		if !errors.Is(err, apperr.ErrArgument) {
			t.Errorf("Validate(%q) = %v, want ErrArgument", bad, err)
		}
	}
}
