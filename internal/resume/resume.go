// Package resume holds the static per-role resume content served next to the
// role metadata kept in the store.
package resume

import "slices"

// DefaultRole is served when a role has no content of its own.
const DefaultRole = "frontend"

type Experience struct {
	Title   string   `json:"title"`
	Company string   `json:"company"`
	Period  string   `json:"period"`
	Points  []string `json:"points"`
}

type Content struct {
	Summary        string       `json:"summary"`
	Skills         []string     `json:"skills"`
	Experience     []Experience `json:"experience"`
	Education      string       `json:"education"`
	Certifications []string     `json:"certifications"`
}

// Role is the selectable career identity shown above the resume.
type Role struct {
	RoleID       string `json:"role_id" gorm:"primaryKey;column:role_id"`
	Label        string `json:"label"`
	Icon         string `json:"icon"`
	Focus        string `json:"focus,omitempty"`
	DisplayOrder int    `json:"display_order"`
	FileURL      string `json:"file_url,omitempty"`
}

func (Role) TableName() string { return "resume_roles" }

var roles = []Role{
	{RoleID: "frontend", Label: "Frontend Developer", Icon: "layout", Focus: "React, TypeScript and motion design", DisplayOrder: 1},
	{RoleID: "data_analyst", Label: "Data Analyst", Icon: "bar-chart", Focus: "Dashboards, SQL and storytelling with data", DisplayOrder: 2},
	{RoleID: "sde", Label: "Software Engineer", Icon: "code", Focus: "Data structures, APIs and system design", DisplayOrder: 3},
	{RoleID: "aiml", Label: "AI/ML Engineer", Icon: "brain", Focus: "NLP, deep learning and model deployment", DisplayOrder: 4},
}

const education = "Bachelor of Technology in Computer Science"

var content = map[string]Content{
	"frontend": {
		Summary: "Creative Frontend Developer passionate about crafting beautiful, responsive, and performant user interfaces. Experienced in modern React ecosystem with a keen eye for design and animations.",
		Skills:  []string{"React", "TypeScript", "Tailwind CSS", "Framer Motion", "Next.js", "HTML5/CSS3", "JavaScript ES6+", "Responsive Design", "UI/UX Principles", "Git"},
		Experience: []Experience{{
			Title:   "Frontend Developer",
			Company: "Tech Company",
			Period:  "2022 - Present",
			Points: []string{
				"Built responsive web applications using React and TypeScript",
				"Implemented complex animations using Framer Motion",
				"Improved page load times by 40% through optimization",
			},
		}},
		Education:      education,
		Certifications: []string{"Meta Frontend Developer Professional Certificate", "Advanced React Patterns"},
	},
	"data_analyst": {
		Summary: "Data-driven analyst with expertise in transforming raw data into actionable insights. Skilled in data visualization, statistical analysis, and business intelligence tools.",
		Skills:  []string{"SQL", "Python (Pandas, NumPy)", "Tableau", "Power BI", "Excel Advanced", "Data Cleaning", "Statistical Analysis", "Data Visualization", "ETL Processes", "Storytelling with Data"},
		Experience: []Experience{{
			Title:   "Data Analyst Intern",
			Company: "Analytics Firm",
			Period:  "2023 - Present",
			Points: []string{
				"Created dashboards that reduced reporting time by 60%",
				"Analyzed customer data to identify trends and patterns",
				"Built automated reports using Python and SQL",
			},
		}},
		Education:      education,
		Certifications: []string{"Google Data Analytics Certificate", "Tableau Desktop Specialist"},
	},
	"sde": {
		Summary: "Software Development Engineer with strong problem-solving skills and experience in building scalable systems. Proficient in data structures, algorithms, and system design principles.",
		Skills:  []string{"Python", "Java", "Data Structures", "Algorithms", "System Design", "REST APIs", "MongoDB", "MySQL", "Git", "Agile/Scrum"},
		Experience: []Experience{{
			Title:   "Software Developer",
			Company: "Tech Startup",
			Period:  "2022 - Present",
			Points: []string{
				"Developed RESTful APIs serving 10K+ daily requests",
				"Implemented efficient algorithms reducing processing time by 50%",
				"Collaborated in agile team environment",
			},
		}},
		Education:      education,
		Certifications: []string{"AWS Cloud Practitioner", "LeetCode 500+ Problems Solved"},
	},
	"aiml": {
		Summary: "AI/ML Engineer passionate about developing intelligent systems and leveraging machine learning to solve complex problems. Experienced in building and deploying ML models.",
		Skills:  []string{"Python", "TensorFlow", "PyTorch", "Scikit-learn", "NLP", "Computer Vision", "Neural Networks", "Model Deployment", "Data Preprocessing", "Feature Engineering"},
		Experience: []Experience{{
			Title:   "ML Research Intern",
			Company: "AI Research Lab",
			Period:  "2023 - Present",
			Points: []string{
				"Developed NLP models with 92% accuracy for text classification",
				"Implemented CNN architectures for image recognition tasks",
				"Published research paper on transfer learning techniques",
			},
		}},
		Education:      education,
		Certifications: []string{"Deep Learning Specialization (Coursera)", "TensorFlow Developer Certificate"},
	},
}

// Lookup returns the content for role, falling back to DefaultRole. The
// second result reports whether role itself was found.
func Lookup(role string) (Content, bool) {
	c, ok := content[role]
	if !ok {
		c = content[DefaultRole]
	}
	return clone(c), ok
}

// Roles returns the built-in role metadata ordered by DisplayOrder.
func Roles() []Role {
	out := slices.Clone(roles)
	slices.SortStableFunc(out, func(a, b Role) int { return a.DisplayOrder - b.DisplayOrder })
	return out
}

func clone(c Content) Content {
	c.Skills = slices.Clone(c.Skills)
	c.Certifications = slices.Clone(c.Certifications)
	exp := make([]Experience, len(c.Experience))
	for i, e := range c.Experience {
		e.Points = slices.Clone(e.Points)
		exp[i] = e
	}
	c.Experience = exp
	return c
}
