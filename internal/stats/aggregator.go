package stats

import (
	"math"
	"sort"

	"github.com/scanbrief/scanbrief/internal/model"
)

// TopN is the ranking depth for hosts, finding names, and ports.
const TopN = 10

// HighScoreThreshold is the CVSS score at or above which a finding counts
// as high risk in the CVSS statistics.
const HighScoreThreshold = 7.0

// Aggregate computes the SummaryStatistics snapshot for the canonical
// finding set. The informational set contributes only to the total host
// count: a host whose every row was filtered out was still scanned.
// Both inputs are read-only; the returned value is never mutated after
// this call.
func Aggregate(findings, informational []model.Finding, caps model.Capabilities) *model.SummaryStatistics {
	stats := &model.SummaryStatistics{
		TotalFindings:  len(findings),
		SeverityCounts: make(map[model.Severity]int),
	}

	hosts := newCounter()
	names := newCounter()
	ports := newCounter()

	var (
		cvssSum   float64
		cvssMax   float64
		cvssCount int
		highCount int
	)

	for _, f := range findings {
		stats.SeverityCounts[f.Severity]++

		hosts.add(f.Host)
		names.add(f.Name)
		if caps.HasPort && f.Port != "" {
			ports.add(f.Port)
		}

		if f.HasCVSS {
			cvssSum += f.CVSS
			if f.CVSS > cvssMax {
				cvssMax = f.CVSS
			}
			if f.CVSS >= HighScoreThreshold {
				highCount++
			}
			cvssCount++
		}
	}

	for sev, count := range stats.SeverityCounts {
		stats.RiskScore += sev.Weight() * count
	}

	allHosts := make(map[string]struct{}, len(hosts.counts))
	for host := range hosts.counts {
		allHosts[host] = struct{}{}
	}
	for _, f := range informational {
		if f.Host != "" {
			allHosts[f.Host] = struct{}{}
		}
	}

	stats.TotalHosts = len(allHosts)
	stats.HostsWithFindings = hosts.distinct()
	stats.TopHosts = hosts.top(TopN)
	stats.TopFindings = names.top(TopN)
	if caps.HasPort {
		stats.TopPorts = ports.top(TopN)
	}

	if cvssCount > 0 {
		stats.CVSS = &model.CVSSStats{
			Average:        round2(cvssSum / float64(cvssCount)),
			Max:            cvssMax,
			HighCount:      highCount,
			ScoredFindings: cvssCount,
		}
	}

	return stats
}

// round2 rounds to two decimal places for presentation-stable averages.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// counter counts occurrences of a grouping key while remembering the order
// keys were first seen. That order is the tie-break for equal counts, which
// keeps the top-N rankings stable across runs.
type counter struct {
	counts map[string]int
	first  map[string]int
	order  int
}

// newCounter creates an empty counter.
func newCounter() *counter {
	return &counter{
		counts: make(map[string]int),
		first:  make(map[string]int),
	}
}

// add records one occurrence of the key.
func (c *counter) add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.first[key] = c.order
		c.order++
	}
	c.counts[key]++
}

// distinct returns the number of distinct keys seen.
func (c *counter) distinct() int {
	return len(c.counts)
}

// top returns the n highest-count keys, ties broken by first encounter.
func (c *counter) top(n int) []model.NameCount {
	if len(c.counts) == 0 {
		return nil
	}

	ranked := make([]model.NameCount, 0, len(c.counts))
	for key, count := range c.counts {
		ranked = append(ranked, model.NameCount{Name: key, Count: count})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return c.first[ranked[i].Name] < c.first[ranked[j].Name]
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
