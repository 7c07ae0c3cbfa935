package engine

import "github.com/tainthound/jsflow/taintmodel"

// dedupSet implements the orchestrator's single merge pass: findings
// collide on Issue.DedupKey() (sink_line:sink_column:issue_type:
// sink_function_name); on collision the higher-severity finding wins, and
// the first-observed finding wins ties, matching the pre-order
// determinism guarantee.
type dedupSet struct {
	order []string
	byKey map[string]taintmodel.Issue
}

func newDedup() *dedupSet {
	return &dedupSet{byKey: make(map[string]taintmodel.Issue)}
}

func (d *dedupSet) add(issue taintmodel.Issue) {
	key := issue.DedupKey()
	existing, ok := d.byKey[key]
	if !ok {
		d.order = append(d.order, key)
		d.byKey[key] = issue
		return
	}
	if severityRank(issue.Severity) > severityRank(existing.Severity) {
		d.byKey[key] = issue
	}
}

func severityRank(s taintmodel.Severity) int {
	switch s {
	case taintmodel.SeverityError:
		return 2
	case taintmodel.SeverityWarning:
		return 1
	default:
		return 0
	}
}

func (d *dedupSet) values() []taintmodel.Issue {
	out := make([]taintmodel.Issue, 0, len(d.order))
	for _, k := range d.order {
		out = append(out, d.byKey[k])
	}
	return out
}
