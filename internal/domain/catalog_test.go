package domain

import (
	"testing"

	"github.com/mechinweb/mechinweb-service/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindService(t *testing.T) {
	svc, err := FindService(" Email-Migration ")
	require.NoError(t, err)
	assert.Equal(t, "Email Migration", svc.Name)

	pkg, err := svc.Package("STANDARD")
	require.NoError(t, err)
	assert.Equal(t, 7.0, pkg.PriceUSD)

	_, err = svc.Package("platinum")
	assert.ErrorIs(t, err, errs.ErrPackageNotFound)

	_, err = FindService("web-design")
	assert.ErrorIs(t, err, errs.ErrServiceNotFound)
}

func TestCatalogEveryServiceHasAllTiers(t *testing.T) {
	for _, svc := range Catalog() {
		for _, tier := range []string{TierBasic, TierStandard, TierEnterprise} {
			_, err := svc.Package(tier)
			assert.NoError(t, err, "%s missing %s", svc.ID, tier)
		}
	}
}

func TestPurchaseStatuses(t *testing.T) {
	assert.True(t, IsKnownPurchaseStatus(PurchaseStatusOverdue))
	assert.False(t, IsKnownPurchaseStatus("draft"))
	assert.True(t, IsFinalPurchaseStatus(PurchaseStatusPaid))
	assert.False(t, IsFinalPurchaseStatus(PurchaseStatusSent))
}
