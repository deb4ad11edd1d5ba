// Package projects holds the portfolio's featured projects, looked up by slug.
package projects

import (
	"errors"
	"fmt"
	"slices"
)

var ErrNotFound = errors.New("project not found")

type Project struct {
	Slug            string   `json:"slug"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	FullDescription string   `json:"full_description"`
	Tech            []string `json:"tech"`
	GitHub          string   `json:"github,omitempty"`
	Link            string   `json:"link,omitempty"`
	Period          string   `json:"period"`
	Color           string   `json:"color"`
	Features        []string `json:"features"`
}

var projects = []Project{
	{
		Slug:            "olympic-insights",
		Title:           "Olympic Insights",
		Description:     "Built interactive Tableau dashboards analyzing 120+ years of Olympic data across 200+ countries. Displayed medal trends, top athletes, and country performance.",
		FullDescription: "A comprehensive data visualization project that leverages Tableau's analytics capabilities to explore over a century of Olympic history. The dashboards provide interactive exploration of medal distributions, athlete performance metrics and country-by-country comparisons across all Olympic sports.",
		Tech:            []string{"Tableau", "Data Visualization", "Analytics"},
		GitHub:          "https://github.com/KunalAnand7222/Olympic-Insights",
		Period:          "Dec 2024 – Jan 2025",
		Color:           "#22c55e",
		Features: []string{
			"Interactive medal trend analysis across 120+ years",
			"Country performance comparison for 200+ nations",
			"Top athlete rankings and statistics",
			"Sport-by-sport breakdown and insights",
		},
	},
	{
		Slug:            "movie-recommender",
		Title:           "Movie Recommender",
		Description:     "Developed an NLP-based recommender system using movie descriptions, genres, and reviews. Generated personalized recommendations with 80% accuracy.",
		FullDescription: "A movie recommendation engine that uses Natural Language Processing to analyze movie descriptions, genres and user reviews. Machine learning models learn user preferences and generate personalized suggestions.",
		Tech:            []string{"Python", "NLTK", "NLP", "Machine Learning"},
		GitHub:          "https://github.com/KunalAnand7222/Movie-recommender",
		Period:          "May 2024 – Jun 2024",
		Color:           "#14b8a6",
		Features: []string{
			"NLP-based content analysis",
			"80% recommendation accuracy",
			"Genre and review sentiment analysis",
			"Personalized user preference learning",
		},
	},
	{
		Slug:            "amazon-clone",
		Title:           "Amazon Clone",
		Description:     "Designed a responsive Amazon-style website using modern UI components. Implemented navigation, product listings, search functionality, and hover effects.",
		FullDescription: "A fully responsive e-commerce clone that replicates the core functionality and design of Amazon, with smooth navigation, dynamic product listings, search and interactive hover effects.",
		Tech:            []string{"HTML", "CSS", "JavaScript"},
		GitHub:          "https://github.com/KunalAnand7222",
		Link:            "https://amazonnnclonee.netlify.app",
		Period:          "Jan 2024 – Apr 2024",
		Color:           "#06b6d4",
		Features: []string{
			"Fully responsive design",
			"Product listing and grid layout",
			"Search functionality",
			"Interactive hover effects",
		},
	},
	{
		Slug:            "ibm-ai-training",
		Title:           "IBM AI Training Project",
		Description:     "Completed 40+ hours of training in supervised, unsupervised, and deep learning concepts. Applied AI techniques to three real-world case studies with 85%+ model accuracy.",
		FullDescription: "An intensive AI training program by IBM covering fundamental and advanced machine learning. Hands-on projects applied supervised, unsupervised and deep learning techniques to real business problems.",
		Tech:            []string{"AI", "Deep Learning", "Machine Learning", "Python"},
		Period:          "Jun 2024 – Jul 2024",
		Color:           "#8b5cf6",
		Features: []string{
			"40+ hours of comprehensive training",
			"Supervised learning implementation",
			"Unsupervised learning techniques",
			"Deep learning neural networks",
			"85%+ model accuracy on case studies",
		},
	},
}

// All returns every project in display order.
func All() []Project {
	out := make([]Project, len(projects))
	for i, p := range projects {
		out[i] = clone(p)
	}
	return out
}

func Lookup(slug string) (Project, error) {
	i := slices.IndexFunc(projects, func(p Project) bool { return p.Slug == slug })
	if i < 0 {
		return Project{}, fmt.Errorf("%w: %q", ErrNotFound, slug)
	}
	return clone(projects[i]), nil
}

func clone(p Project) Project {
	p.Tech = slices.Clone(p.Tech)
	p.Features = slices.Clone(p.Features)
	return p
}
