package normalize

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func testNormalizer() *Normalizer {
	n := New(DefaultPhoneRule)
	n.Now = func() time.Time { return fixedNow }
	return n
}

/*
TestRow_Success checks the happy path plus header-case and whitespace
tolerance: field names match case-insensitively and values are cleaned
before validation.
*/
func TestRow_Success(t *testing.T) {
	t.Parallel()

	n := testNormalizer()

	tests := []struct {
		name string
		in   RawRow
		want Contact
	}{
		{
			name: "plain",
			in:   RawRow{"id": "A1", "phone": "0501234567", "dob": "01/02/1990"},
			want: Contact{ID: "A1", Phone: "+971501234567", DOB: "1990-02-01"},
		},
		{
			name: "upper_case_headers",
			in:   RawRow{"ID": "A1", "PHONE": "+1(415)-555-2671", "DOB": "Feb 1 1990"},
			want: Contact{ID: "A1", Phone: "+14155552671", DOB: "1990-02-01"},
		},
		{
			name: "padded_headers_and_values",
			in:   RawRow{" Id ": " A1 ", " Phone": " 0501234567 ", "dob ": " 1990-02-01"},
			want: Contact{ID: "A1", Phone: "+971501234567", DOB: "1990-02-01"},
		},
		{
			name: "extra_columns_ignored",
			in:   RawRow{"id": "A1", "phone": "0501234567", "dob": "01/02/1990", "email": "a@example.com"},
			want: Contact{ID: "A1", Phone: "+971501234567", DOB: "1990-02-01"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := n.Row(tc.in)
			if err != nil {
				t.Fatalf("Row: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Row = %+v, want %+v", got, tc.want)
			}
		})
	}
}

/*
TestRow_FailureOrder verifies both the failure labels and their strict
precedence: a missing id masks invalid phone and date; an invalid phone
masks an invalid date.
*/
func TestRow_FailureOrder(t *testing.T) {
	t.Parallel()

	n := testNormalizer()

	tests := []struct {
		name       string
		in         RawRow
		wantReason string
	}{
		{
			name:       "missing_id_wins_over_everything",
			in:         RawRow{"id": "", "phone": "bad", "dob": "bad"},
			wantReason: "missing id",
		},
		{
			name:       "absent_id_field",
			in:         RawRow{"phone": "0501234567", "dob": "01/02/1990"},
			wantReason: "missing id",
		},
		{
			name:       "invalid_phone_before_date",
			in:         RawRow{"id": "A1", "phone": "1234567", "dob": "also bad"},
			wantReason: "invalid phone: 1234567",
		},
		{
			name:       "invalid_date",
			in:         RawRow{"id": "A1", "phone": "0501234567", "dob": ""},
			wantReason: "invalid date: ",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := n.Row(tc.in)
			if err == nil {
				t.Fatal("Row succeeded, want error")
			}
			if err.Error() != tc.wantReason {
				t.Fatalf("Row error = %q, want %q", err.Error(), tc.wantReason)
			}
		})
	}
}

// TestRow_MissingIDSentinel ensures the missing-id failure is the shared
// sentinel so callers can branch on it.
func TestRow_MissingIDSentinel(t *testing.T) {
	t.Parallel()

	_, err := testNormalizer().Row(RawRow{"id": "   "})
	if !errors.Is(err, ErrMissingID) {
		t.Fatalf("err = %v, want ErrMissingID", err)
	}
}

// TestID extracts the id for error labeling regardless of header casing.
func TestID(t *testing.T) {
	t.Parallel()

	if got := ID(RawRow{" ID ": " A7 "}); got != "A7" {
		t.Fatalf("ID = %q, want A7", got)
	}
	if got := ID(RawRow{"phone": "x"}); got != "" {
		t.Fatalf("ID = %q, want empty", got)
	}
	if got := ID(RawRow{"id": strings.Repeat(" ", 3)}); got != "" {
		t.Fatalf("ID = %q, want empty", got)
	}
}
