package models

type Project struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Codebases []Codebase `json:"codebases"`
}

type Codebase struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Language  string `json:"language"`
	BuildTool string `json:"build_tool"`
}

// DefaultProject is the template every new project starts from.
func DefaultProject() Project {
	return Project{
		Name:      "",
		Codebases: []Codebase{},
	}
}

// Clone returns a copy that shares no slices with p.
func (p Project) Clone() Project {
	out := p
	if p.Codebases != nil {
		out.Codebases = make([]Codebase, len(p.Codebases))
		copy(out.Codebases, p.Codebases)
	}
	return out
}
