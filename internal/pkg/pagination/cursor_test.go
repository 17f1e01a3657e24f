package pagination

import (
	"testing"

	"github.com/google/uuid"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c := Cursor{UserID: uuid.New(), UpdatedUnix: 1724800000000}

	token, err := Encode(c)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	got, err := Decode(token)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got != c {
		t.Fatalf("expected %+v, got %+v", c, got)
	}
}

func TestDecodeEmptyTokenIsFirstPage(t *testing.T) {
	c, err := Decode("")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !c.IsZero() {
		t.Fatalf("expected zero cursor, got %+v", c)
	}
}

func TestDecodeGarbageFails(t *testing.T) {
	if _, err := Decode("not-base64!!"); err == nil {
		t.Fatal("expected error for invalid token")
	}
}
