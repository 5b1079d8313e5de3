package ingest

// DefaultDenylist contains finding titles that are purely informational:
// scan metadata, route tracing, generic service/OS detection, and
// credential-status notices. These titles never carry a severity and are
// dropped before canonicalization so they cannot distort host or port
// statistics.
//
// Matching is exact on the raw Name cell. The list mirrors what Nessus
// emits; site-specific additions come from the config file.
var DefaultDenylist = []string{
	"Nessus Scan Information",
	"Traceroute Information",
	"Service Detection",
	"Nessus SYN scanner",
	"OS Identification",
	"Device Type",
	"Common Platform Enumeration",
	"Target Credential Status",
	"OS Security Patch Assessment Not Available",
}
