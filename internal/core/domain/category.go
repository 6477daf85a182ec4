package domain

import "sort"

// UnknownCategory is returned for identifiers absent from the table.
const UnknownCategory = "Unknown"

var categoryLabels = map[int]string{
	0:  "Advocate",
	1:  "Arts",
	2:  "Automation Testing",
	3:  "Blockchain",
	4:  "Business Analyst",
	5:  "Civil Engineer",
	6:  "Data Science",
	7:  "Database",
	8:  "DevOps Engineer",
	9:  "DotNet Developer",
	10: "ETL Developer",
	11: "Electrical Engineering",
	12: "HR",
	13: "Hadoop",
	14: "Health and fitness",
	15: "Java Developer",
	16: "Mechanical Engineer",
	17: "Network Security Engineer",
	18: "Operations Manager",
	19: "PMO",
	20: "Python Developer",
	21: "SAP Developer",
	22: "Sales",
	23: "Testing",
	24: "Web Designing",
}

type Category struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// CategoryLabel maps a classifier identifier to its display label.
func CategoryLabel(id int) (string, bool) {
	label, ok := categoryLabels[id]
	if !ok {
		return UnknownCategory, false
	}
	return label, true
}

// Categories lists the table ordered by identifier.
func Categories() []Category {
	out := make([]Category, 0, len(categoryLabels))
	for id, label := range categoryLabels {
		out = append(out, Category{ID: id, Label: label})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
