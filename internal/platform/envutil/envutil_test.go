package envutil

import (
	"testing"
	"time"
)

func TestIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("HS_TEST_INT", "abc")
	if got := Int("HS_TEST_INT", 7); got != 7 {
		t.Fatalf("Int: want=7 got=%d", got)
	}
	t.Setenv("HS_TEST_INT", " 12 ")
	if got := Int("HS_TEST_INT", 7); got != 12 {
		t.Fatalf("Int: want=12 got=%d", got)
	}
}

func TestBool(t *testing.T) {
	cases := map[string]bool{"true": true, "ON": true, "0": false, "off": false, "": true, "maybe": true}
	for raw, want := range cases {
		t.Setenv("HS_TEST_BOOL", raw)
		if got := Bool("HS_TEST_BOOL", true); got != want {
			t.Fatalf("Bool(%q): want=%v got=%v", raw, want, got)
		}
	}
}

func TestDurations(t *testing.T) {
	t.Setenv("HS_TEST_SECS", "5")
	if got := Seconds("HS_TEST_SECS", time.Second); got != 5*time.Second {
		t.Fatalf("Seconds: got=%s", got)
	}
	t.Setenv("HS_TEST_MS", "2500")
	if got := Millis("HS_TEST_MS", time.Second); got != 2500*time.Millisecond {
		t.Fatalf("Millis: got=%s", got)
	}
	t.Setenv("HS_TEST_MS", "-1")
	if got := Millis("HS_TEST_MS", time.Second); got != time.Second {
		t.Fatalf("Millis negative: got=%s", got)
	}
}

func TestList(t *testing.T) {
	t.Setenv("HS_TEST_LIST", "http://a, ,http://b,")
	got := List("HS_TEST_LIST", nil)
	if len(got) != 2 || got[0] != "http://a" || got[1] != "http://b" {
		t.Fatalf("List: got=%v", got)
	}
}
