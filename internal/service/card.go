package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"shoppingCart/internal/apperr"
	"shoppingCart/internal/remote"
	"shoppingCart/internal/session"
	"shoppingCart/internal/validate"
	"shoppingCart/models"
	"shoppingCart/repository"
)

type CardService struct {
	cards repository.CardRepositoryI
	api   *remote.Client
	state *session.State
	log   *slog.Logger
	now   func() time.Time
}

// NewCardService wires the card feature. api may be nil, in which case cards are only kept locally.
func NewCardService(cards repository.CardRepositoryI, api *remote.Client, state *session.State, log *slog.Logger) *CardService {
	return &CardService{cards: cards, api: api, state: state, log: orDefault(log), now: time.Now}
}

// CardInput is the add-card form. Number may contain spaces or dashes.
type CardInput struct {
	Holder   string `validate:"required,max=80"`
	Number   string `validate:"required,credit_card"`
	ExpMonth int    `validate:"min=1,max=12"`
	ExpYear  int    `validate:"min=2000,max=2100"`
}

// Register validates the card, registers it with the backend and stores its last four digits.
func (s *CardService) Register(ctx context.Context, in CardInput) (*models.VirtualCard, error) {
	u, err := requireUser(s.state)
	if err != nil {
		return nil, err
	}
	in.Holder = strings.TrimSpace(in.Holder)
	in.Number = strings.NewReplacer(" ", "", "-", "").Replace(in.Number)
	if err := validate.Struct(in); err != nil {
		return nil, apperr.Custom(err.Error())
	}
	now := s.now()
	if in.ExpYear < now.Year() || (in.ExpYear == now.Year() && in.ExpMonth < int(now.Month())) {
		return nil, apperr.Custom("card has expired")
	}

	card := &models.VirtualCard{
		Holder:   in.Holder,
		Last4:    in.Number[len(in.Number)-4:],
		ExpMonth: in.ExpMonth,
		ExpYear:  in.ExpYear,
	}
	if s.api != nil {
		dto, err := s.api.RegisterCard(ctx, remote.RegisterCardRequest{Holder: in.Holder, Number: in.Number, ExpMonth: in.ExpMonth, ExpYear: in.ExpYear})
		if err != nil {
			return nil, fail(s.log, "card.register", err)
		}
		if card, err = dto.ToDomain(); err != nil {
			return nil, fail(s.log, "card.register", err)
		}
	}
	card.UserID = u.ID
	created, err := s.cards.Create(ctx, card)
	if err != nil {
		return nil, fail(s.log, "card.register", err)
	}
	return created, nil
}

// List returns the user's cards. With a backend configured, cards registered from
// another device are pulled in first; an unreachable backend leaves the local list.
func (s *CardService) List(ctx context.Context) ([]models.VirtualCard, error) {
	u, err := requireUser(s.state)
	if err != nil {
		return nil, err
	}
	if s.api != nil {
		if err := s.refresh(ctx, u.ID); err != nil {
			if apperr.KindOf(err) != apperr.KindNetwork {
				return nil, fail(s.log, "card.list", err)
			}
			s.log.Warn("backend unreachable, listing local cards", "error", err)
		}
	}
	cards, err := s.cards.ListByUserID(ctx, u.ID)
	if err != nil {
		return nil, fail(s.log, "card.list", err)
	}
	return cards, nil
}

func (s *CardService) refresh(ctx context.Context, userID int64) error {
	dtos, err := s.api.Cards(ctx)
	if err != nil {
		return err
	}
	local, err := s.cards.ListByUserID(ctx, userID)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(local))
	for _, c := range local {
		if c.RemoteID != "" {
			known[c.RemoteID] = true
		}
	}
	for i := range dtos {
		if known[dtos[i].ID] {
			continue
		}
		card, err := dtos[i].ToDomain()
		if err != nil {
			return err
		}
		card.UserID = userID
		if _, err := s.cards.Create(ctx, card); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a card locally and, when it was registered there, on the backend.
func (s *CardService) Delete(ctx context.Context, id int64) error {
	u, err := requireUser(s.state)
	if err != nil {
		return err
	}
	card, err := s.cards.GetByID(ctx, id)
	if err != nil {
		return fail(s.log, "card.delete", err)
	}
	if card == nil || card.UserID != u.ID {
		return apperr.Empty("card not found")
	}
	if s.api != nil && card.RemoteID != "" {
		if err := s.api.DeleteCard(ctx, card.RemoteID); err != nil {
			return fail(s.log, "card.delete", err)
		}
	}
	ok, err := s.cards.Delete(ctx, u.ID, id)
	if err != nil {
		return fail(s.log, "card.delete", err)
	}
	if !ok {
		return apperr.Empty("card not found")
	}
	return nil
}
