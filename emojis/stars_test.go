package emojis

import "testing"

func TestForStars(t *testing.T) {
	cases := map[int]string{
		0:   "⭐",
		4:   "⭐",
		5:   "🌟",
		9:   "🌟",
		10:  "💫",
		24:  "💫",
		25:  "✨",
		100: "✨",
	}
	for count, expected := range cases {
		if got := ForStars(count); got != expected {
			t.Fatalf("emojis.ForStars(%d) = %s, expected %s", count, got, expected)
		}
	}
}

func TestIsStar(t *testing.T) {
	if !IsStar("⭐") {
		t.Fatal("emojis.IsStar() didn't accept the star")
	}
	if IsStar("🌟") {
		t.Fatal("emojis.IsStar() accepted a different emoji")
	}
}
