package domain

import (
	"sort"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// DefaultPlans returns the built-in four-tier table, ascending by price.
// It seeds an empty database and backs the catalog when storage is
// unreachable and nothing is cached. IDs are fixed so that seeded rows and
// the fallback table agree.
func DefaultPlans() []Plan {
	plans := []Plan{
		{
			ID:          snowflake.ID(1),
			Name:        "Grátis",
			Slug:        SlugFree,
			Price:       decimal.Zero,
			MaxProducts: intPtr(5),
			MaxOrders:   intPtr(50),
			Features: datatypes.NewJSONSlice([]string{
				"Até 5 produtos",
				"Até 50 pedidos por mês",
				"Subdomínio vitrine",
			}),
			Active: true,
		},
		{
			ID:          snowflake.ID(2),
			Name:        "Básico",
			Slug:        SlugBasic,
			Price:       decimal.RequireFromString("29.90"),
			MaxProducts: intPtr(50),
			MaxOrders:   intPtr(500),
			Features: datatypes.NewJSONSlice([]string{
				"Até 50 produtos",
				"Até 500 pedidos por mês",
				"Cupons de desconto",
				"Frete por faixa de CEP",
			}),
			Active: true,
		},
		{
			ID:          snowflake.ID(3),
			Name:        "Profissional",
			Slug:        SlugProfessional,
			Price:       decimal.RequireFromString("79.90"),
			MaxProducts: intPtr(500),
			MaxOrders:   intPtr(5000),
			Features: datatypes.NewJSONSlice([]string{
				"Até 500 produtos",
				"Até 5000 pedidos por mês",
				"Domínio próprio",
				"Banners e carrossel",
				"Suporte prioritário",
			}),
			Active: true,
		},
		{
			ID:    snowflake.ID(4),
			Name:  "Enterprise",
			Slug:  SlugEnterprise,
			Price: decimal.RequireFromString("199.90"),
			Features: datatypes.NewJSONSlice([]string{
				"Produtos ilimitados",
				"Pedidos ilimitados",
				"Múltiplas lojas",
				"Gerente de conta dedicado",
			}),
			Active: true,
		},
	}
	SortByPrice(plans)
	return plans
}

// SortByPrice orders plans ascending by monthly price, slug breaking ties.
func SortByPrice(plans []Plan) {
	sort.SliceStable(plans, func(i, j int) bool {
		if c := plans[i].Price.Cmp(plans[j].Price); c != 0 {
			return c < 0
		}
		return plans[i].Slug < plans[j].Slug
	})
}

func intPtr(v int) *int { return &v }
