package encoding

import "testing"

func TestRLE_RoundTrip(t *testing.T) {
	in := make([]uint16, 0, 200)
	in = append(in, 1, 1, 1, 2, 2, 3)
	for i := 0; i < 50; i++ {
		in = append(in, 7)
	}
	in = append(in, 9, 10, 10, 10)

	enc := EncodeRLE(in)
	out, err := DecodeRLE(enc, len(in))
	if err != nil {
		t.Fatalf("DecodeRLE: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("len mismatch: got %d want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("mismatch at %d: got %d want %d", i, out[i], in[i])
		}
	}
}

func TestRLE_LengthMismatch(t *testing.T) {
	enc := EncodeRLE([]uint16{4, 4, 4, 4})
	if _, err := DecodeRLE(enc, 3); err == nil {
		t.Fatalf("expected error for too many values")
	}
	if _, err := DecodeRLE(enc, 5); err == nil {
		t.Fatalf("expected error for too few values")
	}
	if out, err := DecodeRLE(EncodeRLE(nil), 0); err != nil || len(out) != 0 {
		t.Fatalf("empty: out=%v err=%v", out, err)
	}
}

func TestRLE_BadInput(t *testing.T) {
	if _, err := DecodeRLE("!!!", 1); err == nil {
		t.Fatalf("expected base64 error")
	}
	if _, err := DecodeRLE("gA==", 1); err == nil {
		t.Fatalf("expected varint error")
	}
}
