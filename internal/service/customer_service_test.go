package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-commerce/internal/audit"
	"crm-commerce/internal/repository"
)

func TestCustomerService_CreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewCustomerService(store, audit.Nop{})

	c, err := svc.Create(ctx, CustomerInput{Name: "Ann", Email: " Ann@Example.com "})
	require.NoError(t, err)
	require.NotNil(t, c.Email)
	assert.Equal(t, "ann@example.com", *c.Email)

	_, err = svc.Create(ctx, CustomerInput{Name: "Ann again", Email: "ann@example.com"})
	assert.ErrorIs(t, err, ErrConflict)

	// customers without email do not collide
	_, err = svc.Create(ctx, CustomerInput{Name: "No mail 1"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CustomerInput{Name: "No mail 2"})
	require.NoError(t, err)

	optOut := true
	phone := "555-0100"
	updated, err := svc.Update(ctx, c.ID, CustomerUpdate{EmailOptOut: &optOut, Phone: &phone})
	require.NoError(t, err)
	assert.True(t, updated.EmailOptOut)
	assert.Equal(t, phone, updated.Phone)

	bad := "not-an-email"
	_, err = svc.Update(ctx, c.ID, CustomerUpdate{Email: &bad})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	page, err := svc.List(ctx, repository.CustomerFilter{Search: "no mail"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
}

func TestCustomerService_TagsAndRecipients(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	rec := &recordingAudit{}
	svc := NewCustomerService(store, rec)

	vip, err := svc.CreateTag(ctx, TagInput{Name: "vip", Color: "#gold"})
	require.NoError(t, err)
	lead, err := svc.CreateTag(ctx, TagInput{Name: "lead"})
	require.NoError(t, err)
	_, err = svc.CreateTag(ctx, TagInput{Name: "vip"})
	assert.ErrorIs(t, err, ErrConflict)

	ann, err := svc.Create(ctx, CustomerInput{Name: "Ann", Email: "ann@example.com"})
	require.NoError(t, err)
	bob, err := svc.Create(ctx, CustomerInput{Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CustomerInput{Name: "Cid", Email: "cid@example.com", EmailOptOut: true})
	require.NoError(t, err)

	got, err := svc.ReplaceTags(ctx, ann.ID, []string{vip.ID, lead.ID, vip.ID})
	require.NoError(t, err)
	assert.Len(t, got.Tags, 2)
	_, err = svc.ReplaceTags(ctx, bob.ID, []string{lead.ID})
	require.NoError(t, err)

	_, err = svc.ReplaceTags(ctx, bob.ID, []string{"missing"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	_, err = svc.ReplaceTags(ctx, "missing", nil)
	assert.ErrorIs(t, err, ErrNotFound)

	everyone, err := svc.Recipients(ctx, nil, false)
	require.NoError(t, err)
	assert.Len(t, everyone, 2)

	anyTag, err := svc.Recipients(ctx, []string{vip.ID, lead.ID}, false)
	require.NoError(t, err)
	assert.Len(t, anyTag, 2)

	allTags, err := svc.Recipients(ctx, []string{vip.ID, lead.ID}, true)
	require.NoError(t, err)
	require.Len(t, allTags, 1)
	assert.Equal(t, "ann@example.com", allTags[0].Email)

	require.NoError(t, svc.DeleteTag(ctx, vip.ID))
	tags, err := svc.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 1)

	assert.Contains(t, rec.actions(), audit.ActionDelete)
}

func TestCustomerService_Enrollments(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewCustomerService(store, audit.Nop{})

	_, err := svc.Enrollments(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	c, err := svc.Create(ctx, CustomerInput{Name: "Ann"})
	require.NoError(t, err)
	list, err := svc.Enrollments(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, dedupe([]string{"a", " ", "b", "a "}))
	assert.Empty(t, dedupe(nil))
}
