package util

import "testing"

func TestGetEnvString(t *testing.T) {
	t.Setenv("CODELENS_TEST_STR", "hello")

	if got := GetEnvString("CODELENS_TEST_STR", "fallback"); got != "hello" {
		t.Fatalf("expected hello, got %q", got)
	}
	if got := GetEnvString("CODELENS_TEST_STR_MISSING", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
}

func TestGetEnvNumeric(t *testing.T) {
	t.Setenv("CODELENS_TEST_NUM", "42.5")
	t.Setenv("CODELENS_TEST_NUM_BAD", "not-a-number")

	if got := GetEnvNumeric("CODELENS_TEST_NUM", 7); got != 42.5 {
		t.Fatalf("expected 42.5, got %v", got)
	}
	if got := GetEnvNumeric("CODELENS_TEST_NUM_BAD", 7); got != 7 {
		t.Fatalf("expected default 7 for unparsable value, got %v", got)
	}
	if got := GetEnvNumeric("CODELENS_TEST_NUM_MISSING", 7); got != 7 {
		t.Fatalf("expected default 7 for missing key, got %v", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("CODELENS_TEST_BOOL", "true")
	t.Setenv("CODELENS_TEST_BOOL_BAD", "yes")

	if got := GetEnvBool("CODELENS_TEST_BOOL", false); !got {
		t.Fatal("expected true")
	}
	if got := GetEnvBool("CODELENS_TEST_BOOL_BAD", false); got {
		t.Fatal("expected default false for non true/false value")
	}
	if got := GetEnvBool("CODELENS_TEST_BOOL_MISSING", true); !got {
		t.Fatal("expected default true for missing key")
	}
}
