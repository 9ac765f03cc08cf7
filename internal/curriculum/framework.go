// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

// Package curriculum aligns catalog works with the Kenyan Competency Based
// Curriculum (CBC).
//
// The framework (grade bands, competency categories, learning areas,
// strands and sub-strands) is static. Alignments are rows of a CSV file that
// name a work by title in book_id and place it in the framework. They are
// joined to the live catalog on demand, so a catalog rebuild is reflected
// without reloading the alignments.
package curriculum

// Category groups related competencies within a grade band.
type Category struct {
	Name         string   `json:"name"`
	Competencies []string `json:"competencies"`
}

// GradeBand is a span of school years sharing one set of competencies.
type GradeBand struct {
	Grade      string     `json:"grade"`
	Categories []Category `json:"categories"`
}

// Framework is the full competency framework in grade order.
type Framework struct {
	Bands         []GradeBand `json:"grade_bands"`
	LearningAreas []string    `json:"learning_areas"`
	Strands       []string    `json:"strands"`
	SubStrands    []string    `json:"sub_strands"`
}

// DefaultFramework returns a fresh copy of the CBC framework.
func DefaultFramework() Framework {
	return Framework{
		Bands: []GradeBand{
			{Grade: "Grade 1-3", Categories: []Category{
				{Name: "Communication", Competencies: []string{"Listening and speaking", "Reading", "Writing"}},
				{Name: "Critical Thinking", Competencies: []string{"Problem solving", "Decision making", "Creative thinking"}},
				{Name: "Citizenship", Competencies: []string{"Social awareness", "Cultural identity", "Environmental care"}},
			}},
			{Grade: "Grade 4-6", Categories: []Category{
				{Name: "Communication", Competencies: []string{"Effective communication", "Reading comprehension", "Creative writing"}},
				{Name: "Critical Thinking", Competencies: []string{"Analysis and evaluation", "Innovation", "Research skills"}},
				{Name: "Citizenship", Competencies: []string{"National unity", "Cultural diversity", "Global citizenship"}},
			}},
			{Grade: "Grade 7-9", Categories: []Category{
				{Name: "Communication", Competencies: []string{"Advanced literacy", "Digital communication", "Multilingual competence"}},
				{Name: "Critical Thinking", Competencies: []string{"Scientific inquiry", "Logical reasoning", "Creative expression"}},
				{Name: "Citizenship", Competencies: []string{"Leadership skills", "Ethical decision making", "Environmental stewardship"}},
			}},
			{Grade: "Form 1-2", Categories: []Category{
				{Name: "Literary Analysis", Competencies: []string{"Character development", "Plot structure", "Theme identification"}},
				{Name: "Cultural Understanding", Competencies: []string{"African heritage", "Contemporary issues", "Cross-cultural dialogue"}},
				{Name: "Communication Skills", Competencies: []string{"Essay writing", "Oral presentation", "Critical discussion"}},
			}},
			{Grade: "Form 3-4", Categories: []Category{
				{Name: "Advanced Analysis", Competencies: []string{"Literary criticism", "Historical context", "Comparative literature"}},
				{Name: "Research Skills", Competencies: []string{"Independent study", "Source evaluation", "Academic writing"}},
				{Name: "Cultural Synthesis", Competencies: []string{"Pan-African literature", "Global perspectives", "Social justice"}},
			}},
		},
		LearningAreas: []string{"English", "Kiswahili", "Mathematics", "Science", "Social Studies", "Creative Arts", "Physical Education"},
		Strands:       []string{"Reading", "Writing", "Listening", "Speaking", "Literature", "Language", "Comprehension"},
		SubStrands:    []string{"Comprehension", "Creative Writing", "Literary Analysis", "Cultural Context", "Theme Analysis", "Character Development"},
	}
}

// Grades lists the grade band names in order.
func (f Framework) Grades() []string {
	out := make([]string, len(f.Bands))
	for i, b := range f.Bands {
		out[i] = b.Grade
	}
	return out
}

// Band returns the grade band with the given name.
func (f Framework) Band(grade string) (GradeBand, bool) {
	for _, b := range f.Bands {
		if b.Grade == grade {
			return b, true
		}
	}
	return GradeBand{}, false
}

// Competencies lists every competency of a grade band across categories.
func (b GradeBand) Competencies() []string {
	var out []string
	for _, c := range b.Categories {
		out = append(out, c.Competencies...)
	}
	return out
}
