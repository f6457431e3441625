package redis

import "testing"

func TestQueryKey(t *testing.T) {
	if got := QueryKey("3-abc:deadbeef"); got != "shelf:query:3-abc:deadbeef" {
		t.Errorf("QueryKey() = %q", got)
	}
}

func TestViewField(t *testing.T) {
	for _, id := range []int{0, 7, 12345} {
		got, err := ParseViewField(ViewField(id))
		if err != nil || got != id {
			t.Errorf("ParseViewField(ViewField(%d)) = %d, %v", id, got, err)
		}
	}
	if _, err := ParseViewField("abc"); err == nil {
		t.Errorf("ParseViewField(abc) should fail")
	}
}
