package reconcile

import "github.com/HelveticaScenario/modular-sub001/internal/patch"

// usageCounts is a multiset of downstream consumer tokens, keyed by token.
type usageCounts map[string]int

// downstreamUsage builds, for every module in the graph, the multiset of
// {consumerType}:{paramPath}:{port} tokens describing each place another
// module references its outputs. Two structurally identical modules are
// told apart by where their signal actually goes.
func downstreamUsage(g *patch.Graph) map[string]usageCounts {
	out := make(map[string]usageCounts, len(g.Modules))
	for _, consumer := range g.Modules {
		for _, name := range sortedKeys(consumer.Params) {
			collectUsage(patch.Path{}.Field(name), consumer.Params[name], consumer.Type, out)
		}
	}
	return out
}

func collectUsage(path patch.Path, p patch.Param, consumerType string, out map[string]usageCounts) {
	switch v := p.(type) {
	case patch.Cable:
		token := consumerType + ":" + path.String() + ":" + v.Port
		counts := out[v.Module]
		if counts == nil {
			counts = make(usageCounts)
			out[v.Module] = counts
		}
		counts[token]++
	case patch.List:
		for i, item := range v.Items {
			collectUsage(path.Index(i), item, consumerType, out)
		}
	case patch.Struct:
		for _, k := range sortedKeys(v.Fields) {
			collectUsage(path.Field(k), v.Fields[k], consumerType, out)
		}
	}
}
