package quiz

import (
	"errors"
	"reflect"
	"testing"
)

const validPayload = `[
  {"question": "2+2?", "options": ["3", "4"], "answer": "4"},
  {"question": "Capital of France?", "options": ["Paris", "Rome"], "answer": "Paris"}
]`

func TestParseValidPayload(t *testing.T) {
	questions, err := Parse(validPayload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	if questions[0].Text != "2+2?" || questions[0].Answer != "4" {
		t.Fatalf("unexpected first question: %+v", questions[0])
	}
	if !reflect.DeepEqual(questions[1].Options, []string{"Paris", "Rome"}) {
		t.Fatalf("unexpected options: %v", questions[1].Options)
	}
}

func TestParseStripsFences(t *testing.T) {
	fenced := "```json\n" + validPayload + "\n```"
	plain, err := Parse(validPayload)
	if err != nil {
		t.Fatalf("parse plain: %v", err)
	}
	stripped, err := Parse(fenced)
	if err != nil {
		t.Fatalf("parse fenced: %v", err)
	}
	if !reflect.DeepEqual(plain, stripped) {
		t.Fatalf("fenced payload parsed differently: %+v vs %+v", plain, stripped)
	}
}

func TestParseStripsBareFences(t *testing.T) {
	fenced := "```\n" + validPayload + "\n```"
	if _, err := Parse(fenced); err != nil {
		t.Fatalf("parse bare-fenced: %v", err)
	}
}

func TestParseRejections(t *testing.T) {
	cases := map[string]string{
		"empty list":            `[]`,
		"non-list":              `{"question": "2+2?"}`,
		"not json":              `here is your quiz!`,
		"single option":         `[{"question": "2+2?", "options": ["4"], "answer": "4"}]`,
		"missing options":       `[{"question": "2+2?", "answer": "4"}]`,
		"answer not in options": `[{"question": "2+2?", "options": ["3", "4"], "answer": "5"}]`,
		"case mismatch":         `[{"question": "2+2?", "options": ["Four", "Three"], "answer": "four"}]`,
	}
	for name, payload := range cases {
		if _, err := Parse(payload); err == nil {
			t.Fatalf("%s: expected parse failure", name)
		} else {
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("%s: expected ParseError, got %T", name, err)
			}
		}
	}
}

func TestStripFencesIdempotent(t *testing.T) {
	once := stripFences(validPayload)
	twice := stripFences(once)
	if once != twice {
		t.Fatalf("stripping is not idempotent:\n%q\n%q", once, twice)
	}
}
