package product

import "time"

// Seed returns the sample catalog used when the persistent store holds no
// products snapshot yet.
func Seed(now time.Time) []Product {
	products := []Product{
		{
			ID:            "1",
			Name:          "Pterodactyl Panel Pro",
			Description:   "Complete Pterodactyl panel setup with custom themes, plugins, and full configuration. Perfect for game server hosting business.",
			Price:         150000,
			OriginalPrice: 200000,
			Stock:         10,
			Category:      "Panel",
			Image:         "https://images.unsplash.com/photo-1558494949-ef010cbdcc31?w=800&h=600&fit=crop",
			Features:      []string{"Custom Theme", "Auto Installer", "24/7 Support", "Free Updates"},
			IsActive:      true,
			SalesCount:    45,
			Views:         320,
		},
		{
			ID:          "2",
			Name:        "WA Bot Script Premium",
			Description: "Advanced WhatsApp automation bot with AI integration, auto-reply, broadcast, and group management features.",
			Price:       75000,
			Stock:       25,
			Category:    "Bot",
			Image:       "https://images.unsplash.com/photo-1611746872915-64382b5c76da?w=800&h=600&fit=crop",
			Features:    []string{"AI Integration", "Auto Reply", "Broadcast", "Group Manager"},
			IsActive:    true,
			SalesCount:  128,
			Views:       890,
		},
		{
			ID:            "3",
			Name:          "Game Server Bundle",
			Description:   "Complete game server setup including Minecraft, CS:GO, and Valorant server configurations with monitoring tools.",
			Price:         250000,
			OriginalPrice: 350000,
			Stock:         5,
			Category:      "Bundle",
			Image:         "https://images.unsplash.com/photo-1542751371-adc38448a05e?w=800&h=600&fit=crop",
			Features:      []string{"Minecraft Server", "CS:GO Server", "Monitoring Tools", "Backup System"},
			IsActive:      true,
			SalesCount:    23,
			Views:         156,
		},
		{
			ID:          "4",
			Name:        "VPS Configuration Script",
			Description: "Automated VPS setup script with security hardening, panel installation, and optimization for gaming servers.",
			Price:       50000,
			Stock:       50,
			Category:    "Script",
			Image:       "https://images.unsplash.com/photo-1629654297299-c8506221ca97?w=800&h=600&fit=crop",
			Features:    []string{"Auto Setup", "Security Hardening", "Optimization", "One-Click Install"},
			IsActive:    true,
			SalesCount:  89,
			Views:       445,
		},
		{
			ID:          "5",
			Name:        "Discord Bot Starter",
			Description: "Feature-rich Discord bot with moderation, music, economy system, and custom commands.",
			Price:       45000,
			Stock:       30,
			Category:    "Bot",
			Image:       "https://images.unsplash.com/photo-1614680376593-902f74cf0d41?w=800&h=600&fit=crop",
			Features:    []string{"Moderation", "Music Player", "Economy System", "Custom Commands"},
			IsActive:    true,
			SalesCount:  67,
			Views:       334,
		},
		{
			ID:          "6",
			Name:        "Cloud Panel Enterprise",
			Description: "Enterprise-grade cloud management panel with multi-server support, billing integration, and API access.",
			Price:       500000,
			Stock:       3,
			Category:    "Panel",
			Image:       "https://images.unsplash.com/photo-1451187580459-43490279c0fa?w=800&h=600&fit=crop",
			Features:    []string{"Multi-Server", "Billing API", "User Management", "Analytics"},
			IsActive:    true,
			SalesCount:  12,
			Views:       98,
		},
	}

	for i := range products {
		products[i].CreatedAt = now
		products[i].UpdatedAt = now
	}
	return products
}
