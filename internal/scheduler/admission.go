package scheduler

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// binaryExtensions is the documented set of file extensions the admission
// predicate treats as non-crawlable assets: images, archives, executables,
// media, fonts, and office documents. Matching is case-insensitive and
// extension-only; a path with no extension always passes.
var binaryExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true,
	".svg": true, ".webp": true, ".ico": true, ".tiff": true,
	".mp3": true, ".mp4": true, ".avi": true, ".mov": true, ".wmv": true,
	".mkv": true, ".wav": true, ".flac": true, ".ogg": true,
	".zip": true, ".tar": true, ".gz": true, ".rar": true, ".7z": true, ".bz2": true,
	".exe": true, ".dmg": true, ".apk": true, ".iso": true, ".bin": true, ".msi": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true, ".otf": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true,
}

// hasBinaryExtension reports whether p's file extension is in the
// documented binary-file set (spec admission rule: "extension is not a
// binary-file extension from the documented set").
func hasBinaryExtension(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	return binaryExtensions[ext]
}

// compileAdmissionRegexes compiles the crawl's includePaths/excludePaths
// patterns, dropping (and reporting via the returned skipped slice) any
// pattern that fails to compile rather than aborting the crawl over a typo.
func compileAdmissionRegexes(patterns []string) (compiled []*regexp.Regexp, skipped []string) {
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			skipped = append(skipped, p)
			continue
		}
		compiled = append(compiled, re)
	}
	return compiled, skipped
}

// matchesIncludeExclude applies the include/exclude regex sets against
// either candidate's path or its full URL, per regexOnFullURL. An empty
// include set admits everything that isn't excluded.
func matchesIncludeExclude(candidate url.URL, include, exclude []*regexp.Regexp, onFullURL bool) bool {
	subject := candidate.Path
	if onFullURL {
		subject = candidate.String()
	}

	for _, re := range exclude {
		if re.MatchString(subject) {
			return false
		}
	}
	if len(include) == 0 {
		return true
	}
	for _, re := range include {
		if re.MatchString(subject) {
			return true
		}
	}
	return false
}

// isInScope reports whether candidateHost may be admitted given the crawl's
// origin/subdomain scope flags. allowExternal disables the check entirely;
// otherwise candidateHost must equal one of allowedHosts, or (when
// allowSubdomains is set) be a subdomain of one of them.
func isInScope(candidateHost string, allowedHosts map[string]struct{}, allowExternal, allowSubdomains bool) bool {
	if allowExternal || len(allowedHosts) == 0 {
		return true
	}
	candidateHost = strings.ToLower(candidateHost)
	for host := range allowedHosts {
		host = strings.ToLower(host)
		if candidateHost == host {
			return true
		}
		if allowSubdomains && strings.HasSuffix(candidateHost, "."+host) {
			return true
		}
	}
	return false
}

// isPathDescendant reports whether candidatePath is seedPath or a descendant
// of it (spec: "backward crawling" is following a link whose path is NOT a
// descendant of the seed path). The root path "" or "/" admits everything.
func isPathDescendant(seedPath, candidatePath string) bool {
	if seedPath == "" || seedPath == "/" {
		return true
	}
	prefix := seedPath
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return candidatePath == seedPath || strings.HasPrefix(candidatePath, prefix)
}
