package parser

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseFencedJSONInProse(t *testing.T) {
	raw := "Sure! Here is your sarcastic take:\n" +
		"```json\n" +
		"{\n" +
		`  "description": "Politicians discover weather exists, nation stunned",` + "\n" +
		`  "emotion": "Sarcasm",` + "\n" +
		`  "category": "Politics",` + "\n" +
		`  "dialogues": ["When the forecast is more transparent than the budget speech", "Me: trusting the news again"],` + "\n" +
		`  "hashtags": ["#Sarcasm", "#Politics", "NoHash", "#Weather"]` + "\n" +
		"}\n" +
		"```\n" +
		"Hope that helps!"

	r, err := Parse(raw)
	if err != nil {
		t.Fatal(err)
	}

	if r.Description != "Politicians discover weather exists, nation stunned" {
		t.Errorf("description altered: %q", r.Description)
	}
	if r.Emotion != "sarcasm" {
		t.Errorf("emotion not lower-cased: %q", r.Emotion)
	}
	if r.Category != "politics" {
		t.Errorf("category not lower-cased: %q", r.Category)
	}
	// First dialogue has 10 words; it must be cut to 8, not re-wrapped.
	want := []string{
		"When the forecast is more transparent than the",
		"Me: trusting the news again",
	}
	if !reflect.DeepEqual(r.Dialogues, want) {
		t.Errorf("dialogues = %v, want %v", r.Dialogues, want)
	}
	wantTags := []string{"#Sarcasm", "#Politics", "#NoHash", "#Weather"}
	if !reflect.DeepEqual(r.Hashtags, wantTags) {
		t.Errorf("hashtags = %v, want %v", r.Hashtags, wantTags)
	}
}

func TestParseJSONMissingKeyFails(t *testing.T) {
	raw := `{"description": "x", "emotion": "joy"}`
	if _, err := Parse(raw); !errors.Is(err, ErrUnparsable) {
		t.Fatalf("got %v, want ErrUnparsable", err)
	}
}

func TestParseQuotedTier(t *testing.T) {
	raw := "description: Everyone pretends the ending was shocking and new\n" +
		"emotion: sarcasm\n" +
		"category: movies\n" +
		`The lines are "When the sequel flops harder than the original" and "Me: buying tickets anyway like a clown"` + "\n" +
		"#Movies #Sarcasm #BoxOffice"

	r, err := Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if r.Emotion != "sarcasm" || r.Category != "movies" {
		t.Errorf("fields: %q / %q", r.Emotion, r.Category)
	}
	if len(r.Dialogues) != 2 {
		t.Fatalf("dialogues = %v", r.Dialogues)
	}
	if r.Dialogues[0] != "When the sequel flops harder than the original" {
		t.Errorf("dialogue[0] = %q", r.Dialogues[0])
	}
}

func TestParseLinePatternTier(t *testing.T) {
	raw := "Description: Politicians discover weather exists, nation stunned\n" +
		"Emotion: sarcasm\n" +
		"Category: politics\n" +
		"1. When the weather forecast is more honest than parliament\n" +
		"2. Me: pretending to be surprised again today\n" +
		"#Sarcasm #Politics #NoSurprise #Trending"

	r, err := Parse(raw)
	if err != nil {
		t.Fatal(err)
	}

	if r.Description != "Politicians discover weather exists, nation stunned" {
		t.Errorf("description = %q", r.Description)
	}
	if r.Emotion != "sarcasm" || r.Category != "politics" {
		t.Errorf("fields: %q / %q", r.Emotion, r.Category)
	}
	// 9-word caption cut down to 8.
	if r.Dialogues[0] != "When the weather forecast is more honest than" {
		t.Errorf("dialogue[0] = %q", r.Dialogues[0])
	}
	if r.Dialogues[1] != "Me: pretending to be surprised again today" {
		t.Errorf("dialogue[1] = %q", r.Dialogues[1])
	}
	if len(r.Hashtags) != 4 {
		t.Errorf("hashtags = %v", r.Hashtags)
	}
}

func TestParseFailureReturnsNoPartialRecord(t *testing.T) {
	raw := "The weather is nice today.\nNothing else happened."

	r, err := Parse(raw)
	if !errors.Is(err, ErrUnparsable) {
		t.Fatalf("got %v, want ErrUnparsable", err)
	}
	if r != nil {
		t.Fatalf("got partial record %+v, want nil", r)
	}
}

func TestParseRejectsRecordWithTooFewCaptions(t *testing.T) {
	// All fields present but only one usable dialogue line.
	raw := "Description: Something happened somewhere apparently\n" +
		"Emotion: sarcasm\n" +
		"Category: general\n" +
		"1. When one caption is all you get\n" +
		"#News #Sarcasm #Only"

	if _, err := Parse(raw); !errors.Is(err, ErrUnparsable) {
		t.Fatalf("got %v, want ErrUnparsable", err)
	}
}

func TestParseRejectsTooFewHashtags(t *testing.T) {
	raw := `{"description": "Something happened again", "emotion": "sarcasm", "category": "general", ` +
		`"dialogues": ["When it happens again", "Me: not even surprised"], "hashtags": ["#One", "#Two"]}`

	if _, err := Parse(raw); !errors.Is(err, ErrUnparsable) {
		t.Fatalf("got %v, want ErrUnparsable for a 2-hashtag record", err)
	}
}

func TestParseArrayResponse(t *testing.T) {
	raw := `[{"description": "A headline got memed", "emotion": "joy", "category": "sports", ` +
		`"dialogues": ["When the team finally wins", "Everyone: acting like they never doubted"], ` +
		`"hashtags": ["#Sports", "#Winners", "#Finally"]}]`

	r, err := Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if r.Emotion != "joy" || len(r.Dialogues) != 2 {
		t.Errorf("unexpected record: %+v", r)
	}
}
