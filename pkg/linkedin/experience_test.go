package linkedin

import (
	"context"
	"testing"

	"github.com/codeGROOVE-dev/resumator/pkg/profile"
	"github.com/google/go-cmp/cmp"
)

func singleRole(title, company, date string) string {
	return `<li>
		<div class="mr1 t-bold"><span aria-hidden="true">` + title + `</span></div>
		<span class="t-14 t-normal"><span aria-hidden="true">` + company + `</span></span>
		<span class="t-14 t-normal t-black--light"><span class="pvs-entity__caption-wrapper">` + date + `</span></span>
	</li>`
}

func experienceSection(items string) string {
	return `<section><div id="experience"></div><ul>` + items + `</ul></section>`
}

func TestExperience(t *testing.T) {
	tests := []struct {
		name  string
		items string
		opts  []Option
		want  []profile.Experience
	}{
		{
			name:  "single_role_with_type",
			items: singleRole("Staff Engineer", "Acme Corp · Full-time", "2021 - Present"),
			want: []profile.Experience{
				{Title: "Staff Engineer", Company: "Acme Corp", EmploymentType: "Full-time", Date: "2021 - Present"},
			},
		},
		{
			name:  "date_with_line_break",
			items: singleRole("Engineer", "Acme", "2020<br>Present"),
			want:  []profile.Experience{{Title: "Engineer", Company: "Acme", Date: "2020 Present"}},
		},
		{
			name:  "referral_dropped",
			items: singleRole("Jane Smith helped me get this job", "Acme Corp", "") + singleRole("Engineer", "Acme Corp", "2020"),
			want:  []profile.Experience{{Title: "Engineer", Company: "Acme Corp", Date: "2020"}},
		},
		{
			name:  "referral_case_insensitive_across_fields",
			items: singleRole("Jane HELPED ME", "Acme", "land this Job"),
			want:  []profile.Experience{},
		},
		{
			name:  "missing_company_dropped",
			items: `<li><div class="mr1"><span aria-hidden="true">Engineer</span></div></li>`,
			want:  []profile.Experience{},
		},
		{
			name:  "missing_title_dropped",
			items: singleRole("", "Acme", "2020"),
			want:  []profile.Experience{},
		},
		{
			name:  "custom_filter_keeps_referral",
			items: singleRole("Jane helped me get this job", "Acme", ""),
			opts:  []Option{WithEntryFilter(func(profile.Experience) bool { return false })},
			want:  []profile.Experience{{Title: "Jane helped me get this job", Company: "Acme"}},
		},
		{
			name:  "nil_filter_keeps_referral",
			items: singleRole("Jane helped me get this job", "Acme", ""),
			opts:  []Option{WithEntryFilter(nil)},
			want:  []profile.Experience{{Title: "Jane helped me get this job", Company: "Acme"}},
		},
		{
			name: "grouped_employer",
			items: `<li>
				<div class="mr1 hoverable-link-text t-bold"><span aria-hidden="true">Beta LLC · Contract</span></div>
				<span class="t-14 t-normal"><span aria-hidden="true">3 yrs</span></span>
				<div class="pvs-entity__sub-components"><ul>
					<li><div class="mr1 t-bold"><span aria-hidden="true">Lead</span></div>
						<span class="pvs-entity__caption-wrapper">2020 - 2021</span></li>
					<li><div class="mr1 t-bold"><span aria-hidden="true">Developer</span></div>
						<span class="pvs-entity__caption-wrapper">2018 - 2020</span></li>
				</ul></div>
			</li>`,
			want: []profile.Experience{
				{Title: "Lead", Company: "Beta LLC", EmploymentType: "Contract", Date: "2020 - 2021"},
				{Title: "Developer", Company: "Beta LLC", EmploymentType: "Contract", Date: "2018 - 2020"},
			},
		},
		{
			// One role name plus a sub-component list of skills is not a group.
			name: "sub_components_single_role",
			items: `<li>
				<div class="mr1 t-bold"><span aria-hidden="true">Engineer</span></div>
				<span class="t-14 t-normal"><span aria-hidden="true">Gamma Inc</span></span>
				<span class="pvs-entity__caption-wrapper">2017</span>
				<div class="pvs-entity__sub-components"><ul><li><span aria-hidden="true">Skills: Go</span></li></ul></div>
			</li>`,
			want: []profile.Experience{{Title: "Engineer", Company: "Gamma Inc", Date: "2017"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pageFromHTML(t, experienceSection(tt.items))
			doc, err := p.Snapshot(context.Background())
			if err != nil {
				t.Fatalf("Snapshot() error = %v", err)
			}
			got := newTestExtractor(tt.opts...).experience(doc)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("experience() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIsReferral(t *testing.T) {
	tests := []struct {
		e    profile.Experience
		want bool
	}{
		{profile.Experience{Title: "Ann helped me get this job"}, true},
		{profile.Experience{Title: "Ann", Company: "helped me", Date: "find a job"}, true},
		{profile.Experience{Title: "Helpdesk", Company: "Jobs Inc"}, false},
		{profile.Experience{}, false},
	}

	for _, tt := range tests {
		if got := IsReferral(tt.e); got != tt.want {
			t.Errorf("IsReferral(%+v) = %v, want %v", tt.e, got, tt.want)
		}
	}
}

func TestEducation(t *testing.T) {
	p := pageFromHTML(t, `<section><div id="education"></div><ul>
		<li>
			<div class="mr1"><span aria-hidden="true">State University</span></div>
			<span class="t-14 t-normal"><span aria-hidden="true">BSc</span></span>
			<span class="t-14 t-normal t-black--light"><span aria-hidden="true">2014 - 2018</span></span>
			<div class="pvs-entity__sub-components"><ul><li>Thesis on
				compilers</li></ul></div>
		</li>
		<li><span>nothing we recognise</span></li>
	</ul></section>`)
	doc, err := p.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	got := newTestExtractor().education(doc)

	want := []profile.Education{
		{School: "State University", Degree: "BSc", DateRange: "2014 - 2018", Description: "Thesis on compilers"},
		{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("education() mismatch (-want +got):\n%s", diff)
	}
}
