package domain

// HealthPlan is the structured plan returned by the LLM for a given
// condition: what to eat and avoid, exercises, medicines, and the kind
// of doctor to see.
type HealthPlan struct {
	Diet     Diet       `json:"diet"`
	Exercise []Exercise `json:"exercise"`
	Medicine []Medicine `json:"medicine"`
	Doctor   Doctor     `json:"doctor"`
}

type Diet struct {
	Take  []string `json:"take"`
	Avoid []string `json:"avoid"`
}

type Exercise struct {
	Name string `json:"name"`
	Sets int    `json:"sets"`
	Reps int    `json:"reps"`
}

type Medicine struct {
	Name     string `json:"name"`
	Dosage   string `json:"dosage"`
	Duration string `json:"duration"`
}

type Doctor struct {
	Specialization string `json:"specialization"`
	Location       string `json:"location"`
}
