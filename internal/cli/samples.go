package cli

import "storefront-quiz-service/internal/domain"

// sampleProducts is served when no catalog source is configured.
func sampleProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Classic Tee", Description: "Soft cotton t-shirt", Price: 19.99},
		{ID: 2, Name: "Canvas Tote", Description: "Sturdy everyday bag", Price: 24.5},
		{ID: 3, Name: "Desk Lamp", Description: "Adjustable arm lamp", Price: 42},
	}
}

// sampleQuestions is served when no question source is configured.
func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			Question: "What is the chemical symbol for sodium?",
			Choices:  []string{"S", "Na", "So", "Sd"},
			Answer:   "Na",
		},
		{
			Question: "What is the atomic number of carbon?",
			Choices:  []string{"6", "8", "12", "14"},
			Answer:   "6",
		},
	}
}
