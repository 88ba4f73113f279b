package fetch

import (
	"net/url"
	"strings"
)

// Platform is a job board whose markup is known.
type Platform string

const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformUnknown    Platform = "unknown"
)

var platformHosts = []struct {
	platform Platform
	suffixes []string
}{
	{PlatformGreenhouse, []string{"greenhouse.io"}},
	{PlatformLever, []string{"lever.co"}},
	{PlatformWorkday, []string{"workday.com", "myworkdayjobs.com"}},
}

// DetectPlatform identifies the job board from the URL host.
func DetectPlatform(pageURL string) Platform {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Hostname())
	for _, p := range platformHosts {
		for _, s := range p.suffixes {
			if host == s || strings.HasSuffix(host, "."+s) {
				return p.platform
			}
		}
	}
	return PlatformUnknown
}

// PlatformContentSelectors returns the selectors that hold the posting body, most
// specific first. Unknown platforms use the whole body.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformGreenhouse:
		return []string{".job__description.body", ".job__description", ".job-description__content", "#content", ".job-post-container"}
	case PlatformLever:
		return []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"}
	case PlatformWorkday:
		return []string{"[data-automation-id='jobDescription']", ".job-description"}
	default:
		return []string{"body"}
	}
}

// PlatformNoiseSelectors returns elements to drop before extracting text. Unknown
// platforms keep all visible content.
func PlatformNoiseSelectors(platform Platform) []string {
	if platform == PlatformUnknown {
		return nil
	}
	common := []string{
		"nav", "footer", "form",
		"#application-form", ".application-form", ".apply-button-container",
		".eeo-statement", ".eeo-section", ".voluntary-disclosure", ".self-identification",
		".social-share", ".cookie-banner", ".cookie-consent",
	}
	switch platform {
	case PlatformGreenhouse:
		return append(common, ".application--wrapper", ".voluntary-self-id", "#usa_self_id_section")
	case PlatformLever:
		return append(common, ".apply-section", ".lever-application-form", ".posting-apply")
	case PlatformWorkday:
		return append(common, "[data-automation-id='applyButton']", ".application-section")
	default:
		return common
	}
}
