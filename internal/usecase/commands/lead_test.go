//go:build unit

package commands_test

import (
	"context"
	"testing"

	"leadgate/internal/domain/lead"
	"leadgate/internal/pkg/errs"
	"leadgate/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateParams() commands.CreateLeadParams {
	return commands.CreateLeadParams{
		Contact: lead.Contact{
			Name:  "Dana Wells",
			Email: "dana@example.com",
			Phone: "+1-503-555-0101",
		},
		Details: lead.Details{
			Category:       "excavator",
			EquipmentTypes: []string{"mini-excavator"},
			RentalDuration: "1-week",
			StartDate:      "2026-09-15",
			City:           "Portland",
			ZipCode:        "97201",
		},
	}
}

func TestLeadCreate(t *testing.T) {
	store := newFakeStore()
	cmd := commands.NewLeadCommands(newFakeUoW(store))
	ctx := context.Background()

	t.Run("persists a fresh lead with StatusNew", func(t *testing.T) {
		id, err := cmd.Create(ctx, validCreateParams())
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, id)

		assert.Equal(t, lead.StatusNew, store.status(id))
		assert.Equal(t, 0, store.purchaserCount(id))
	})

	t.Run("rejects missing contact fields", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*commands.CreateLeadParams)
		}{
			{name: "blank contact name", mutate: func(p *commands.CreateLeadParams) { p.Contact.Name = "  " }},
			{name: "blank contact email", mutate: func(p *commands.CreateLeadParams) { p.Contact.Email = "" }},
			{name: "blank category", mutate: func(p *commands.CreateLeadParams) { p.Details.Category = "" }},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				params := validCreateParams()
				tc.mutate(&params)

				_, err := cmd.Create(ctx, params)
				require.Error(t, err)
				assert.True(t, errs.Is(err, commands.ErrLeadValidation))
			})
		}
	})
}
