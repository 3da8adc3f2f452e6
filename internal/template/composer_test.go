package template

import "testing"

func TestAssemble_TitleOnly(t *testing.T) {
	got := Assemble(Fields{Title: "Hello"})
	if got != "<b>Hello</b>" {
		t.Fatalf("unexpected document: %q", got)
	}
}

func TestAssemble_AllFields(t *testing.T) {
	got := Assemble(Fields{
		Title:      "T",
		Subtitle:   "S",
		Body:       "Body",
		Note:       "Note",
		Conclusion: "End",
		Hashtags:   "#a #b",
		Links:      "https://example.com",
	})
	want := "<b>T</b>\n<i>S</i>\n\nBody\n\n<blockquote>Note</blockquote>\n\nEnd\n\n<i>#a #b</i>\n\nhttps://example.com"
	if got != want {
		t.Fatalf("unexpected document:\n%q\nwant\n%q", got, want)
	}
}

func TestAssemble_SkippedHeaderLeavesNoLeadingBlankLine(t *testing.T) {
	got := Assemble(Fields{Body: "Body", Hashtags: "#x"})
	if got != "Body\n\n<i>#x</i>" {
		t.Fatalf("unexpected document: %q", got)
	}
}

func TestAssemble_AllSkipped(t *testing.T) {
	if got := Assemble(Fields{}); got != "" {
		t.Fatalf("expected empty document, got %q", got)
	}
}

func TestFinalize_CopyTextIsEscaped(t *testing.T) {
	res := Finalize(Fields{Title: "A & B"}, true)
	if res.Document != "<b>A & B</b>" {
		t.Fatalf("unexpected document: %q", res.Document)
	}
	if res.CopyText != "&lt;b&gt;A &amp; B&lt;/b&gt;" {
		t.Fatalf("unexpected copy text: %q", res.CopyText)
	}
	if !res.HasPremium {
		t.Fatal("expected premium flag to be carried")
	}
}

func TestFieldsSetAndGet(t *testing.T) {
	var f Fields
	for s := StepTitle; s <= StepLinks; s++ {
		f.Set(s, "v")
	}
	if f != (Fields{Title: "v", Subtitle: "v", Body: "v", Note: "v", Conclusion: "v", Hashtags: "v", Links: "v"}) {
		t.Fatalf("unexpected fields: %+v", f)
	}
	f.Set(StepNote, "")
	if f.Get(StepNote) != "" {
		t.Fatal("expected skipped step to store empty value")
	}
	f.Set(Step(42), "ignored")
	if f.Get(Step(42)) != "" {
		t.Fatal("expected invalid step to be ignored")
	}
}

func TestPremiumTracker_IsSticky(t *testing.T) {
	var p PremiumTracker
	p.Observe(false)
	if p.Seen() {
		t.Fatal("expected no premium yet")
	}
	p.Observe(true)
	p.Observe(false)
	if !p.Seen() {
		t.Fatal("expected premium flag to stick")
	}
}
