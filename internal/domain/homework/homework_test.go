package homework

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
	return v
}

func TestCheckResponseRejectsBadShapes(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantKey string
		typeOf  string
	}{
		{name: "array body", body: `[1,2]`, typeOf: "response"},
		{name: "string body", body: `"oops"`, typeOf: "response"},
		{name: "no homeworks", body: `{"current_date": 1}`, wantKey: "homeworks"},
		{name: "no current_date", body: `{"homeworks": []}`, wantKey: "current_date"},
		{name: "homeworks is object", body: `{"homeworks": {}, "current_date": 1}`, typeOf: "homeworks"},
		{name: "current_date is text", body: `{"homeworks": [], "current_date": "now"}`, typeOf: "current_date"},
		{name: "current_date is fractional", body: `{"homeworks": [], "current_date": 1.5}`, typeOf: "current_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := CheckResponse(decode(t, tt.body))
			if list != nil {
				t.Fatalf("CheckResponse() list=%v, want nil", list)
			}
			if tt.wantKey != "" {
				var keyErr *MissingKeyError
				if !errors.As(err, &keyErr) || keyErr.Key != tt.wantKey {
					t.Fatalf("CheckResponse() err=%v, want MissingKeyError{%s}", err, tt.wantKey)
				}
				return
			}
			var typeErr *ResponseTypeError
			if !errors.As(err, &typeErr) || typeErr.Field != tt.typeOf {
				t.Fatalf("CheckResponse() err=%v, want ResponseTypeError{%s}", err, tt.typeOf)
			}
		})
	}
}

func TestCheckResponseNil(t *testing.T) {
	_, err := CheckResponse(nil)
	var typeErr *ResponseTypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("CheckResponse(nil) err=%v, want ResponseTypeError", err)
	}
}

func TestCheckResponseIsIdempotent(t *testing.T) {
	resp := decode(t, `{"homeworks": [{"homework_name": "proj1", "status": "approved"}], "current_date": 1700000000}`)

	first, err := CheckResponse(resp)
	if err != nil {
		t.Fatalf("CheckResponse() err=%v", err)
	}
	second, err := CheckResponse(resp)
	if err != nil {
		t.Fatalf("second CheckResponse() err=%v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("CheckResponse() first=%v second=%v, want equal", first, second)
	}
	if len(first) != 1 {
		t.Fatalf("len(list)=%d, want 1", len(first))
	}
}

func TestCurrentDate(t *testing.T) {
	ts, err := CurrentDate(decode(t, `{"homeworks": [], "current_date": 1700000600}`))
	if err != nil {
		t.Fatalf("CurrentDate() err=%v", err)
	}
	if ts != 1700000600 {
		t.Fatalf("CurrentDate()=%d, want 1700000600", ts)
	}

	if _, err := CurrentDate(map[string]any{"current_date": float64(42)}); err != nil {
		t.Fatalf("CurrentDate(float64) err=%v", err)
	}
}

func TestParseStatusKnownVerdicts(t *testing.T) {
	verdicts := DefaultVerdicts()
	for _, status := range []Status{StatusApproved, StatusReviewing, StatusRejected} {
		record := map[string]any{"homework_name": "proj1", "status": string(status)}
		got, err := verdicts.ParseStatus(record)
		if err != nil {
			t.Fatalf("ParseStatus(%s) err=%v", status, err)
		}
		want := `Изменился статус проверки работы "proj1". ` + verdicts[status]
		if got != want {
			t.Fatalf("ParseStatus(%s)=%q, want %q", status, got, want)
		}
	}
}

func TestParseStatusUnknown(t *testing.T) {
	_, err := DefaultVerdicts().ParseStatus(map[string]any{"homework_name": "proj1", "status": "lost"})
	var unknown *UnknownStatusError
	if !errors.As(err, &unknown) {
		t.Fatalf("ParseStatus() err=%v, want UnknownStatusError", err)
	}
	if unknown.Status != "lost" || !strings.Contains(err.Error(), "lost") {
		t.Fatalf("UnknownStatusError=%v, want it to carry %q", err, "lost")
	}
}

func TestParseStatusMissingFields(t *testing.T) {
	verdicts := DefaultVerdicts()

	_, err := verdicts.ParseStatus(map[string]any{"status": "approved"})
	var missing *MissingFieldError
	if !errors.As(err, &missing) || missing.Field != "homework_name" {
		t.Fatalf("ParseStatus(no name) err=%v, want MissingFieldError{homework_name}", err)
	}

	_, err = verdicts.ParseStatus(map[string]any{"homework_name": "proj1"})
	if !errors.As(err, &missing) || missing.Field != "status" {
		t.Fatalf("ParseStatus(no status) err=%v, want MissingFieldError{status}", err)
	}

	_, err = verdicts.ParseStatus("proj1")
	var typeErr *ResponseTypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("ParseStatus(string) err=%v, want ResponseTypeError", err)
	}
}

func TestDefaultVerdictsReturnsCopy(t *testing.T) {
	a := DefaultVerdicts()
	a[StatusApproved] = "changed"
	if DefaultVerdicts()[StatusApproved] == "changed" {
		t.Fatal("DefaultVerdicts() shares state between calls")
	}
}
