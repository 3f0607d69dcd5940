package domain

import (
	"strings"

	"github.com/mechinweb/mechinweb-service/pkg/errs"
)

const (
	TierBasic      = "basic"
	TierStandard   = "standard"
	TierEnterprise = "enterprise"
)

type ServicePackage struct {
	Tier     string   `json:"tier"`
	Name     string   `json:"name"`
	PriceUSD float64  `json:"price_usd"`
	Features []string `json:"features"`
}

type Service struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Unit        string           `json:"unit"`
	Packages    []ServicePackage `json:"packages"`
}

// Package returns the tier of the service, matching case-insensitively.
func (s Service) Package(tier string) (ServicePackage, error) {
	tier = strings.ToLower(strings.TrimSpace(tier))
	for _, p := range s.Packages {
		if p.Tier == tier {
			return p, nil
		}
	}
	return ServicePackage{}, errs.ErrPackageNotFound
}

var catalog = []Service{
	{
		ID:          "email-migration",
		Name:        "Email Migration",
		Description: "Mailbox migration between Google Workspace, Microsoft 365 and IMAP hosts.",
		Unit:        "mailbox",
		Packages: []ServicePackage{
			{Tier: TierBasic, Name: "Basic", PriceUSD: 4, Features: []string{"Email only", "Up to 10 GB per mailbox"}},
			{Tier: TierStandard, Name: "Standard", PriceUSD: 7, Features: []string{"Email, contacts and calendars", "Up to 50 GB per mailbox"}},
			{Tier: TierEnterprise, Name: "Enterprise", PriceUSD: 10, Features: []string{"Full tenant migration", "Delta sync and cutover support"}},
		},
	},
	{
		ID:          "email-security",
		Name:        "Email Security Setup",
		Description: "SPF, DKIM and DMARC configuration with deliverability checks.",
		Unit:        "domain",
		Packages: []ServicePackage{
			{Tier: TierBasic, Name: "Basic", PriceUSD: 8, Features: []string{"SPF and DKIM records"}},
			{Tier: TierStandard, Name: "Standard", PriceUSD: 15, Features: []string{"SPF, DKIM and DMARC", "Monitoring for 30 days"}},
			{Tier: TierEnterprise, Name: "Enterprise", PriceUSD: 25, Features: []string{"Full policy enforcement", "Monthly DMARC reports"}},
		},
	},
	{
		ID:          "domain-dns-setup",
		Name:        "Domain & DNS Setup",
		Description: "Domain registration guidance, DNS zone setup and propagation checks.",
		Unit:        "domain",
		Packages: []ServicePackage{
			{Tier: TierBasic, Name: "Basic", PriceUSD: 10, Features: []string{"A, CNAME and MX records"}},
			{Tier: TierStandard, Name: "Standard", PriceUSD: 20, Features: []string{"Full zone migration", "Email routing"}},
			{Tier: TierEnterprise, Name: "Enterprise", PriceUSD: 35, Features: []string{"Multi-domain setup", "DNSSEC"}},
		},
	},
	{
		ID:          "ssl-certificate-setup",
		Name:        "SSL Certificate Setup",
		Description: "Certificate issuance, installation and renewal automation.",
		Unit:        "certificate",
		Packages: []ServicePackage{
			{Tier: TierBasic, Name: "Basic", PriceUSD: 10, Features: []string{"Single domain certificate"}},
			{Tier: TierStandard, Name: "Standard", PriceUSD: 18, Features: []string{"Wildcard certificate", "Auto renewal"}},
			{Tier: TierEnterprise, Name: "Enterprise", PriceUSD: 30, Features: []string{"Multi-domain certificate", "HSTS hardening"}},
		},
	},
	{
		ID:          "cloud-suite-management",
		Name:        "Cloud Suite Management",
		Description: "Administration of Google Workspace or Microsoft 365 tenants.",
		Unit:        "month",
		Packages: []ServicePackage{
			{Tier: TierBasic, Name: "Basic", PriceUSD: 15, Features: []string{"User provisioning", "Email support"}},
			{Tier: TierStandard, Name: "Standard", PriceUSD: 25, Features: []string{"Security policies", "Priority support"}},
			{Tier: TierEnterprise, Name: "Enterprise", PriceUSD: 40, Features: []string{"Dedicated administrator", "Compliance reviews"}},
		},
	},
	{
		ID:          "data-backup",
		Name:        "Data Backup & Recovery",
		Description: "Scheduled backups of mailboxes and drives with restore support.",
		Unit:        "user",
		Packages: []ServicePackage{
			{Tier: TierBasic, Name: "Basic", PriceUSD: 10, Features: []string{"Weekly backups"}},
			{Tier: TierStandard, Name: "Standard", PriceUSD: 18, Features: []string{"Daily backups", "30 day retention"}},
			{Tier: TierEnterprise, Name: "Enterprise", PriceUSD: 30, Features: []string{"Hourly backups", "1 year retention"}},
		},
	},
}

// Catalog returns a copy of every service offered.
func Catalog() []Service {
	services := make([]Service, len(catalog))
	copy(services, catalog)
	return services
}

func FindService(id string) (Service, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, s := range catalog {
		if s.ID == id {
			return s, nil
		}
	}
	return Service{}, errs.ErrServiceNotFound
}
