package server

import "fmt"

// displayServerInfo prints the listening address and the active protections.
func (s *Server) displayServerInfo(addr string, tlsEnabled bool) {
	scheme := "http"
	if tlsEnabled {
		scheme = "https"
	}
	fmt.Fprintf(s.output, "Listening on %s://%s\n", scheme, addr)

	fmt.Fprintln(s.output, "Available endpoints:")
	fmt.Fprintln(s.output, "  GET  /health            - Health check")
	fmt.Fprintln(s.output, "  GET  /stats             - Server statistics")
	fmt.Fprintln(s.output, "  POST /score             - Resume quality score")
	fmt.Fprintln(s.output, "  POST /ats               - ATS compatibility check")
	fmt.Fprintln(s.output, "  POST /analyze           - Quality score and ATS check")
	fmt.Fprintln(s.output, "  POST /validate          - Validate a document against the schema")
	fmt.Fprintln(s.output, "  POST /parse-file        - Extract and parse an uploaded resume")
	fmt.Fprintln(s.output, "  POST /suggest/{kind}    - rewrite, enhance or keywords suggestions")

	if len(s.APIKeys) > 0 {
		fmt.Fprintf(s.output, "API authentication: ENABLED (%d keys configured)\n", len(s.APIKeys))
	} else {
		fmt.Fprintln(s.output, "API authentication: DISABLED (no API keys configured)")
	}

	if s.MaxBodySize > 0 {
		fmt.Fprintf(s.output, "Request size limit: %d bytes (uploads: %.1f MB)\n",
			s.MaxBodySize, float64(s.MaxUploadSize)/(1024*1024))
	} else {
		fmt.Fprintln(s.output, "Request size limit: DISABLED")
	}

	if s.RateLimiter != nil {
		fmt.Fprintf(s.output, "Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
			s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
	} else {
		fmt.Fprintln(s.output, "Rate limiting: DISABLED")
	}

	fmt.Fprintf(s.output, "Suggestions: %s\n", s.Suggester.ProviderName())
}
