package catalog

const (
	Skills       = "skills"
	Achievements = "achievements"
)

// Defaults returns fresh copies of the built-in catalogs.
func Defaults() []Catalog {
	return []Catalog{
		{
			Name:   Skills,
			Layout: "linear",
			Items: []Item{
				{ID: "aiml", Label: "AI / ML", Color: "#10B981", SubItems: []string{"Regression", "Classification", "Clustering", "NLP", "Neural Networks", "Model Evaluation"}},
				{ID: "frontend", Label: "FRONTEND", Color: "#3B82F6", SubItems: []string{"HTML", "CSS", "JavaScript", "React", "Tailwind", "Animations"}},
				{ID: "data", Label: "DATA ANALYTICS", Color: "#F59E0B", SubItems: []string{"SQL", "Tableau", "Power BI", "Excel", "Data Cleaning", "Visualization"}},
				{ID: "backend", Label: "BACKEND", Color: "#EC4899", SubItems: []string{"Python", "Java", "APIs", "MongoDB", "MySQL"}},
				{ID: "tools", Label: "TOOLS", Color: "#8B5CF6", SubItems: []string{"GitHub", "VS Code", "Automation", "Deployment"}},
				{ID: "others", Label: "OTHERS", Color: "#06B6D4", SubItems: []string{"Problem Solving", "DSA", "System Thinking"}},
			},
		},
		{
			Name:              Achievements,
			Layout:            "radial",
			PauseOrbitOnHover: true,
			Items: []Item{
				{ID: "dsa", Label: "220+ Problems", Color: "#10B981", SubItems: []string{"DSA Solved"}},
				{ID: "cgpa", Label: "8.64 CGPA", Color: "#3B82F6", SubItems: []string{"Academic"}},
				{ID: "accuracy", Label: "85%+ Accuracy", Color: "#A855F7", SubItems: []string{"ML Models"}},
				{ID: "projects", Label: "5+ Projects", Color: "#EAB308", SubItems: []string{"ML & AI"}},
				{ID: "certs", Label: "4+ Certifications", Color: "#EF4444", SubItems: []string{"Professional"}},
				{ID: "ibm", Label: "IBM Trainee", Color: "#6366F1", SubItems: []string{"Summer 2024"}},
			},
		},
	}
}

// DefaultSet returns the built-in catalogs as a Set.
func DefaultSet() *Set {
	s, err := NewSet(Defaults()...)
	if err != nil {
		panic(err) // built-ins are static
	}
	return s
}
