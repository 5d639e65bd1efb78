package extract

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestBlocks(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "no blocks",
			text: "Tell me about your first job.",
			want: nil,
		},
		{
			name: "primary fence",
			text: "ok ```resume-json\n{\"bio\":\"x\"}\n``` done",
			want: []string{"{\"bio\":\"x\"}\n"},
		},
		{
			name: "generic fence",
			text: "```json {\"title\":\"A\"}```",
			want: []string{"{\"title\":\"A\"}"},
		},
		{
			name: "no whitespace after marker",
			text: "```resume-json{\"a\":1}```",
			want: []string{"{\"a\":1}"},
		},
		{
			name: "unclosed fence",
			text: "```resume-json\n{\"bio\":\"x\"}",
			want: nil,
		},
		{
			name: "both fences in text order",
			text: "```json\n{\"b\":2}\n```\nthen\n```resume-json\n{\"a\":1}\n```",
			want: []string{"{\"b\":2}\n", "{\"a\":1}\n"},
		},
		{
			name: "dangling primary does not hide generic block",
			text: "```resume-json\n{\"broken\": \n and then ```json\n{\"title\":\"W\"}\n```",
			want: []string{"{\"broken\": \n and then ", "{\"title\":\"W\"}\n"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(Blocks(tt.text))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBlocks_StopsEarly(t *testing.T) {
	text := "```json\n{}\n``` ```json\n{}\n``` ```json\n{}\n```"
	n := 0
	for range Blocks(text) {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestParse_Shapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Record
		ok   bool
	}{
		{
			name: "work experience with defaults",
			raw:  `{"company":"Acme","role":"Engineer"}`,
			want: WorkExperience{Company: "Acme", Role: "Engineer", Responsibilities: []string{}, Achievements: []string{}},
			ok:   true,
		},
		{
			name: "work experience full",
			raw:  `{"company":"Acme","role":"Eng","start_date":"2020-01","end_date":"2022-06","responsibilities":["build"],"achievements":["ship"],"extra":true}`,
			want: WorkExperience{
				Company: "Acme", Role: "Eng",
				StartDate: ptr("2020-01"), EndDate: ptr("2022-06"),
				Responsibilities: []string{"build"}, Achievements: []string{"ship"},
			},
			ok: true,
		},
		{
			name: "empty company still accepted",
			raw:  `{"company":"","role":""}`,
			want: WorkExperience{Responsibilities: []string{}, Achievements: []string{}},
			ok:   true,
		},
		{
			name: "title and role without company is a project",
			raw:  `{"title":"Widget","role":"lead"}`,
			want: Project{Title: "Widget", Technologies: []string{}},
			ok:   true,
		},
		{
			name: "company and role win over title",
			raw:  `{"title":"Widget","company":"Acme","role":"lead"}`,
			want: WorkExperience{Company: "Acme", Role: "lead", Responsibilities: []string{}, Achievements: []string{}},
			ok:   true,
		},
		{
			name: "non-string title falls through to profile",
			raw:  `{"title":42,"bio":"hi"}`,
			want: Profile{Bio: ptr("hi")},
			ok:   true,
		},
		{
			name: "profile skills only",
			raw:  `{"skills":["Go","Rust"]}`,
			want: Profile{Skills: []string{"Go", "Rust"}},
			ok:   true,
		},
		{
			name: "profile wrong-typed values treated as absent",
			raw:  `{"current_job_role":null,"skills":"Go","bio":"hi"}`,
			want: Profile{Bio: ptr("hi")},
			ok:   true,
		},
		{name: "profile with nothing usable", raw: `{"current_job_role":null,"skills":"Go"}`, ok: false},
		{name: "profile with only null bio", raw: `{"bio":null}`, ok: false},
		{name: "profile with empty skills", raw: `{"skills":[1,null]}`, ok: false},
		{
			name: "mixed list keeps strings",
			raw:  `{"title":"T","technologies":["TS",1,null,"Go"]}`,
			want: Project{Title: "T", Technologies: []string{"TS", "Go"}},
			ok:   true,
		},
		{name: "unclassifiable object", raw: `{"hello":"world"}`, ok: false},
		{name: "array", raw: `[1,2]`, ok: false},
		{name: "string", raw: `"company"`, ok: false},
		{name: "null", raw: `null`, ok: false},
		{name: "malformed", raw: `{not valid json`, ok: false},
		{name: "empty", raw: "  \n", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.raw)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_Kinds(t *testing.T) {
	rec, ok := Classify(map[string]any{"company": "A", "role": "B"})
	require.True(t, ok)
	assert.Equal(t, KindWorkExperience, rec.Kind())

	rec, ok = Classify(map[string]any{"title": "A"})
	require.True(t, ok)
	assert.Equal(t, KindProject, rec.Kind())

	rec, ok = Classify(map[string]any{"career_summary": "A"})
	require.True(t, ok)
	assert.Equal(t, KindProfile, rec.Kind())

	_, ok = Classify(map[string]any{"company": "A"})
	assert.False(t, ok)
}

func TestDedupe(t *testing.T) {
	a := Project{Title: "A", Technologies: []string{}}
	b := WorkExperience{Company: "Acme", Role: "Eng", Responsibilities: []string{}, Achievements: []string{}}
	bLower := WorkExperience{Company: "acme", Role: "Eng", Responsibilities: []string{}, Achievements: []string{}}

	in := slices.Values([]Record{a, b, a, bLower, b})
	got := slices.Collect(Dedupe(in))

	assert.Equal(t, []Record{a, b, bLower}, got)
}

func TestExtract_ZeroBlocks(t *testing.T) {
	assert.Empty(t, All("Nothing structured here, just chatting."))
}

func TestExtract_ProjectScenario(t *testing.T) {
	text := "Nice! ```resume-json\n{\"title\":\"Widget\",\"technologies\":[\"TS\"]}\n``` Let's continue."

	got := All(text)

	require.Len(t, got, 1)
	assert.Equal(t, Project{Title: "Widget", Technologies: []string{"TS"}}, got[0])
}

func TestExtract_EmptyProfileSkipped(t *testing.T) {
	assert.Empty(t, All("```resume-json\n{\"bio\":null}\n```"))
}

func TestExtract_MalformedBody(t *testing.T) {
	assert.Empty(t, All("```resume-json\n{not valid json\n```"))
}

func TestExtract_RepeatedBlockAppliedOnce(t *testing.T) {
	block := "```resume-json\n{\"skills\":[\"Go\"]}\n```"
	text := block + "\nand again\n" + block + "\n```json\n{\"skills\": [\"Go\"]}\n```"

	got := All(text)

	require.Len(t, got, 1)
	assert.Equal(t, Profile{Skills: []string{"Go"}}, got[0])
}

func TestExtract_ProfileAndProject(t *testing.T) {
	text := "Great.\n```resume-json\n{\"bio\":\"Builder\",\"skills\":[\"Go\"]}\n```\n" +
		"Also:\n```resume-json\n{\"title\":\"CLI\",\"impact\":\"saved hours\"}\n```"

	got := All(text)

	require.Len(t, got, 2)
	assert.Equal(t, Profile{Bio: ptr("Builder"), Skills: []string{"Go"}}, got[0])
	assert.Equal(t, Project{Title: "CLI", Impact: ptr("saved hours"), Technologies: []string{}}, got[1])
}

func TestFenceRe_MatchesMarkerLiterally(t *testing.T) {
	re := fenceRe("```a.b")
	assert.False(t, re.MatchString("```axb\n{}\n```"))
	m := re.FindStringSubmatch("```a.b\n{}\n```")
	require.Len(t, m, 2)
	assert.Equal(t, "{}\n", m[1])
}
