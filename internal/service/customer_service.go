package service

import (
	"context"
	"errors"
	"strings"

	"crm-commerce/internal/audit"
	"crm-commerce/internal/models"
	"crm-commerce/internal/repository"
)

type CustomerInput struct {
	Name        string `json:"name" binding:"required,notblank,max=200"`
	Email       string `json:"email" binding:"omitempty,email,max=200"`
	Phone       string `json:"phone" binding:"max=50"`
	Address     string `json:"address"`
	EmailOptOut bool   `json:"emailOptOut"`
}

type CustomerUpdate struct {
	Name        *string `json:"name" binding:"omitempty,notblank,max=200"`
	Email       *string `json:"email" binding:"omitempty,max=200"`
	Phone       *string `json:"phone" binding:"omitempty,max=50"`
	Address     *string `json:"address"`
	EmailOptOut *bool   `json:"emailOptOut"`
}

type TagInput struct {
	Name  string `json:"name" binding:"required,notblank,max=100"`
	Color string `json:"color" binding:"omitempty,max=20"`
}

// Recipient is one addressee of a bulk email campaign.
type Recipient struct {
	CustomerID string `json:"customerId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
}

type CustomerService struct {
	store *repository.Store
	audit audit.Recorder
}

func NewCustomerService(store *repository.Store, recorder audit.Recorder) *CustomerService {
	return &CustomerService{store: store, audit: recorder}
}

func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (*models.Customer, error) {
	customer := &models.Customer{
		Name:        strings.TrimSpace(in.Name),
		Email:       normalizeEmail(in.Email),
		Phone:       strings.TrimSpace(in.Phone),
		Address:     strings.TrimSpace(in.Address),
		EmailOptOut: in.EmailOptOut,
	}
	if err := s.store.Customers.Create(ctx, customer); err != nil {
		return nil, translate(err, "customer email")
	}
	s.audit.Record(ctx, audit.Entry{Action: audit.ActionCreate, Entity: "Customer", EntityID: customer.ID, New: customer})
	return customer, nil
}

func (s *CustomerService) Get(ctx context.Context, id string) (*models.Customer, error) {
	customer, err := s.store.Customers.FindByID(ctx, id)
	return customer, translate(err, "customer")
}

func (s *CustomerService) List(ctx context.Context, f repository.CustomerFilter) (PageResult[models.Customer], error) {
	f.Page = f.Page.Normalize()
	f.Search = strings.TrimSpace(f.Search)
	customers, total, err := s.store.Customers.List(ctx, f)
	if err != nil {
		return PageResult[models.Customer]{}, err
	}
	return newPageResult(customers, f.Page, total), nil
}

func (s *CustomerService) Update(ctx context.Context, id string, in CustomerUpdate) (*models.Customer, error) {
	before, err := s.store.Customers.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "customer")
	}

	cols := map[string]any{}
	if in.Name != nil {
		cols["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email != nil && !strings.Contains(*email, "@") {
			return nil, invalid("email", "email is not valid")
		}
		cols["email"] = email
	}
	if in.Phone != nil {
		cols["phone"] = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		cols["address"] = strings.TrimSpace(*in.Address)
	}
	if in.EmailOptOut != nil {
		cols["email_opt_out"] = *in.EmailOptOut
	}
	if len(cols) == 0 {
		return before, nil
	}

	if err := s.store.Customers.Update(ctx, id, cols); err != nil {
		return nil, translate(err, "customer email")
	}
	after, err := s.store.Customers.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "customer")
	}
	s.audit.Record(ctx, audit.Entry{Action: audit.ActionUpdate, Entity: "Customer", EntityID: id, Old: before, New: after})
	return after, nil
}

// ReplaceTags sets the customer's tags to exactly tagIDs.
func (s *CustomerService) ReplaceTags(ctx context.Context, id string, tagIDs []string) (*models.Customer, error) {
	tagIDs = dedupe(tagIDs)
	var after *models.Customer
	var before []models.Tag
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		customer, err := tx.Customers.FindByID(ctx, id)
		if err != nil {
			return err
		}
		before = customer.Tags

		tags, err := tx.Tags.FindByIDs(ctx, tagIDs)
		if err != nil {
			return err
		}
		if len(tags) != len(tagIDs) {
			return invalid("tagIds", "one or more tags do not exist")
		}
		if err := tx.Customers.ReplaceTags(ctx, customer, tags); err != nil {
			return err
		}
		after, err = tx.Customers.FindByID(ctx, id)
		return err
	})
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return nil, verr
		}
		return nil, translate(err, "customer")
	}

	s.audit.Record(ctx, audit.Entry{
		Action:   audit.ActionUpdate,
		Entity:   "CustomerTags",
		EntityID: id,
		Old:      tagNames(before),
		New:      tagNames(after.Tags),
	})
	return after, nil
}

func (s *CustomerService) Enrollments(ctx context.Context, customerID string) ([]models.Enrollment, error) {
	if _, err := s.store.Customers.FindByID(ctx, customerID); err != nil {
		return nil, translate(err, "customer")
	}
	return s.store.Enrollments.ListByCustomer(ctx, customerID)
}

func (s *CustomerService) CreateTag(ctx context.Context, in TagInput) (*models.Tag, error) {
	tag := &models.Tag{Name: strings.TrimSpace(in.Name), Color: strings.TrimSpace(in.Color)}
	if err := s.store.Tags.Create(ctx, tag); err != nil {
		return nil, translate(err, "tag")
	}
	s.audit.Record(ctx, audit.Entry{Action: audit.ActionCreate, Entity: "Tag", EntityID: tag.ID, New: tag})
	return tag, nil
}

func (s *CustomerService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.store.Tags.FindAll(ctx)
}

func (s *CustomerService) DeleteTag(ctx context.Context, id string) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		return tx.Tags.Delete(ctx, id)
	})
	if err != nil {
		return translate(err, "tag")
	}
	s.audit.Record(ctx, audit.Entry{Action: audit.ActionDelete, Entity: "Tag", EntityID: id})
	return nil
}

// Recipients resolves the audience of a bulk email: customers with an email
// who have not opted out, optionally narrowed to any (or all) of tagIDs.
func (s *CustomerService) Recipients(ctx context.Context, tagIDs []string, matchAll bool) ([]Recipient, error) {
	customers, err := s.store.Customers.Reachable(ctx, dedupe(tagIDs), matchAll)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(customers))
	out := make([]Recipient, 0, len(customers))
	for _, c := range customers {
		if c.Email == nil {
			continue
		}
		key := strings.ToLower(*c.Email)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, Recipient{CustomerID: c.ID, Name: c.Name, Email: *c.Email})
	}
	return out, nil
}

func normalizeEmail(email string) *string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}
	return &email
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func tagNames(tags []models.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}
