package api

import "net/http"

// starterQuestions seed the chat widget for first-time users. They stay
// within the gate's denylist on purpose.
var starterQuestions = []string{
	"Who has won the most CSA contests?",
	"What are the different competition divisions?",
	"What are the rules for advancing divisions?",
	"How many NSDC championships have been held?",
	"What contests happen most frequently?",
	"Who are the top judges in CSA competitions?",
	"Explain the CSA division system",
	"What is the NSDC required song list?",
	"How long does it take to progress from Amateur to Pro?",
}

func suggestedQuestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": starterQuestions}, nil)
}
