package scraper

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pegacl/pegacl/internal/models"
	"github.com/pegacl/pegacl/internal/network"
)

const jsonTimeout = 10 * time.Second

// Registry builds every adapter with its own fetch client, keyed by site
// name. Trabajando gets a transport retry budget because its API drops
// connections under load; the other JSON sources fail straight to absence.
// proxies may be nil.
func Registry(linkedIn LinkedInOptions, proxies *network.ProxyPool, logger zerolog.Logger) (map[string]Scraper, error) {
	agent := network.NewAgentProvider()

	htmlClient, err := network.NewHTMLClient(agent, proxies, logger)
	if err != nil {
		return nil, err
	}

	return map[string]Scraper{
		string(models.WebsiteLaborum):           NewLaborum(network.NewJSONClient(agent, 0, jsonTimeout, logger), logger),
		string(models.WebsiteTrabajando):        NewTrabajando(network.NewJSONClient(agent, 2, jsonTimeout, logger), logger),
		string(models.WebsiteTrabajoConSentido): NewTrabajoConSentido(network.NewJSONClient(agent, 0, jsonTimeout, logger), logger),
		string(models.WebsiteLinkedIn):          NewLinkedIn(linkedIn, htmlClient, logger),
	}, nil
}

// NormalizeSites lower-cases and trims user-supplied site names.
func NormalizeSites(sites []string) []string {
	out := make([]string, 0, len(sites))
	for _, site := range sites {
		site = strings.ToLower(strings.TrimSpace(site))
		if site == "" {
			continue
		}
		out = append(out, site)
	}
	return out
}
