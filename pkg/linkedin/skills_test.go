package linkedin

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
)

const showAll = `<a id="navigation-index-Show-all-9-skills" href="/in/janedoe/details/skills/">Show all</a>`

func skillsSection(items string, trigger bool) string {
	html := `<section><div id="skills"></div><ul>` + items + `</ul>`
	if trigger {
		html += showAll
	}
	return html + `</section>`
}

func sectionSkill(name string) string {
	return `<li><div class="mr1 hoverable-link-text t-bold"><span aria-hidden="true">` + name + `</span></div>
		<div class="pvs-entity__sub-components"><ul><li><span aria-hidden="true">Endorsed by 4 colleagues</span></li></ul></div></li>`
}

func TestExpandSkillsCollapsedShortcut(t *testing.T) {
	p := pageFromHTML(t, skillsSection(
		sectionSkill("Go")+sectionSkill("Kubernetes")+sectionSkill("Go")+
			`<li><span aria-hidden="true">42</span></li>`+
			`<li><span aria-hidden="true">Skills</span></li>`+
			`<li><span aria-hidden="true">and 3 others</span></li>`+
			`<li><span aria-hidden="true">  Distributed
				Systems </span></li>`, false))

	start := time.Now()
	got := newTestExtractor(WithWaitTimeout(time.Minute)).ExpandSkills(context.Background(), p)
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("ExpandSkills() took %v without a trigger, want no waiting", elapsed)
	}

	if diff := cmp.Diff([]string{"Go", "Kubernetes", "Distributed Systems"}, got.Skills); diff != "" {
		t.Errorf("Skills mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]SkillsState{Collapsed, Done}, got.Trace); diff != "" {
		t.Errorf("Trace mismatch (-want +got):\n%s", diff)
	}
	if got.Expanded {
		t.Error("Expanded = true, want false")
	}
}

func TestExpandSkillsPaginatesUntilButtonGone(t *testing.T) {
	p := pageFromHTML(t, skillsSection(sectionSkill("Go"), true))
	scriptSkills(p,
		skillItem("Go")+skillItem("Rust"),
		skillItem("Python"),
		skillItem("Rust")+skillItem("SQL"),
	)

	got := newTestExtractor().ExpandSkills(context.Background(), p)

	if got.LoadMoreClicks != 2 {
		t.Errorf("LoadMoreClicks = %d, want 2", got.LoadMoreClicks)
	}
	want := []SkillsState{Collapsed, Expanding, Paginating, Paginating, Paginating, Done}
	if diff := cmp.Diff(want, got.Trace); diff != "" {
		t.Errorf("Trace mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Go", "Rust", "Python", "SQL"}, got.Skills); diff != "" {
		t.Errorf("Skills mismatch (-want +got):\n%s", diff)
	}
	if !got.Expanded {
		t.Error("Expanded = false, want true")
	}
}

func TestExpandSkillsMaxPages(t *testing.T) {
	p := pageFromHTML(t, skillsSection("", true))
	sel := DefaultSelectors()
	p.OnClick(sel.ShowAllSkills, func(doc *goquery.Document) {
		doc.Find("#details").AppendHtml(`<ul id="paged">` + skillItem("Go") + `</ul>` +
			`<button class="scaffold-finite-scroll__load-button">more</button>`)
	})
	n := 0
	p.OnClick(sel.LoadMore, func(doc *goquery.Document) {
		n++
		doc.Find("#paged").AppendHtml(skillItem("Skill" + string(rune('A'+n))))
	})

	got := newTestExtractor(WithMaxPages(3)).ExpandSkills(context.Background(), p)

	if got.LoadMoreClicks != 3 {
		t.Errorf("LoadMoreClicks = %d, want 3", got.LoadMoreClicks)
	}
	if diff := cmp.Diff([]string{"Go", "SkillB", "SkillC", "SkillD"}, got.Skills); diff != "" {
		t.Errorf("Skills mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandSkillsWaitTimesOut(t *testing.T) {
	// "load more" never produces anything and never goes away.
	p := pageFromHTML(t, skillsSection("", true))
	sel := DefaultSelectors()
	p.OnClick(sel.ShowAllSkills, func(doc *goquery.Document) {
		doc.Find("#details").AppendHtml(`<ul>` + skillItem("Go") + `</ul>` +
			`<button class="scaffold-finite-scroll__load-button">more</button>`)
	})

	start := time.Now()
	got := newTestExtractor(WithWaitTimeout(20*time.Millisecond), WithMaxPages(2)).
		ExpandSkills(context.Background(), p)

	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("ExpandSkills() returned after %v, want each click to wait out the timeout", elapsed)
	}
	if got.LoadMoreClicks != 2 {
		t.Errorf("LoadMoreClicks = %d, want 2", got.LoadMoreClicks)
	}
	if diff := cmp.Diff([]string{"Go"}, got.Skills); diff != "" {
		t.Errorf("Skills mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandSkillsCancelledContext(t *testing.T) {
	p := pageFromHTML(t, skillsSection(sectionSkill("Go"), true))
	scriptSkills(p, skillItem("Go"), skillItem("Rust"), skillItem("SQL"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	got := newTestExtractor(WithWaitTimeout(time.Minute)).ExpandSkills(ctx, p)
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("ExpandSkills() took %v on a cancelled context", elapsed)
	}
	if got.LoadMoreClicks != 0 {
		t.Errorf("LoadMoreClicks = %d, want 0", got.LoadMoreClicks)
	}
	if diff := cmp.Diff([]string{"Go"}, got.Skills); diff != "" {
		t.Errorf("Skills mismatch (-want +got):\n%s", diff)
	}
}

func TestWithNoisePatterns(t *testing.T) {
	p := pageFromHTML(t, skillsSection(
		sectionSkill("Go")+`<li><span aria-hidden="true">42</span></li>`+sectionSkill("Internal Tooling"), false))

	tests := []struct {
		name string
		opts []Option
		want []string
	}{
		{"default", nil, []string{"Go", "Internal Tooling"}},
		{"disabled", []Option{WithNoisePatterns()}, []string{"Go", "42", "Internal Tooling"}},
		{"custom", []Option{WithNoisePatterns(regexp.MustCompile(`(?i)internal`))}, []string{"Go", "42"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newTestExtractor(tt.opts...).ExpandSkills(context.Background(), p)
			if diff := cmp.Diff(tt.want, got.Skills); diff != "" {
				t.Errorf("Skills mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDefaultNoisePatterns(t *testing.T) {
	e := newTestExtractor()
	tests := []struct {
		text string
		want bool
	}{
		{"Skills", true},
		{"skills & endorsements", true},
		{"Endorsed by Jane Doe", true},
		{"3 endorsements", false},
		{"12", true},
		{"and 2 others", true},
		{"Ann and 1 other", true},
		{"Go", false},
		{"Mothers Day Campaigns", false},
		{"C++", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := e.isNoise(tt.text); got != tt.want {
				t.Errorf("isNoise(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestSkillsStateString(t *testing.T) {
	for s, want := range map[SkillsState]string{
		Collapsed: "collapsed", Expanding: "expanding", Paginating: "paginating", Done: "done", SkillsState(9): "unknown",
	} {
		if got := s.String(); got != want {
			t.Errorf("SkillsState(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}
