// Command seed creates the schema and loads the initial catalog: the staff
// accounts, the three destinations and the launch packages. Safe to re-run;
// inserts are upserts or skipped on conflict.
package main

import (
	"context"
	"os"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/joho/godotenv"

	"github.com/floripafacil/backend/internal/domain"
	"github.com/floripafacil/backend/internal/repo/postgres"
	"github.com/floripafacil/backend/pkg/config"
	"github.com/floripafacil/backend/pkg/database"
	"github.com/floripafacil/backend/pkg/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	name          TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL,
	permissions   TEXT[] NOT NULL DEFAULT '{}',
	is_active     BOOLEAN NOT NULL DEFAULT TRUE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS destinations (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	short_desc    TEXT NOT NULL DEFAULT '',
	description   TEXT NOT NULL DEFAULT '',
	traveler_type TEXT NOT NULL DEFAULT '',
	image         TEXT NOT NULL DEFAULT '',
	attractions   TEXT[] NOT NULL DEFAULT '{}',
	gallery       TEXT[] NOT NULL DEFAULT '{}',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS packages (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	subtitle       TEXT NOT NULL DEFAULT '',
	destination_id TEXT NOT NULL DEFAULT '',
	destinations   TEXT[] NOT NULL DEFAULT '{}',
	price_usd      INTEGER NOT NULL,
	is_best_seller BOOLEAN NOT NULL DEFAULT FALSE,
	features       TEXT[] NOT NULL DEFAULT '{}',
	image          TEXT NOT NULL DEFAULT '',
	is_active      BOOLEAN NOT NULL DEFAULT TRUE,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS reservations (
	id             BIGSERIAL PRIMARY KEY,
	status         TEXT NOT NULL DEFAULT 'pending',
	package_id     TEXT NOT NULL,
	package_title  TEXT NOT NULL,
	customer_name  TEXT NOT NULL,
	customer_email TEXT NOT NULL,
	customer_phone TEXT NOT NULL,
	travel_date    TIMESTAMPTZ NOT NULL,
	pax            INTEGER NOT NULL,
	notes          TEXT NOT NULL DEFAULT '',
	amount_usd     INTEGER NOT NULL DEFAULT 0,
	seller_id      BIGINT REFERENCES users(id),
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS reservations_status_idx ON reservations (status);
CREATE INDEX IF NOT EXISTS reservations_seller_idx ON reservations (seller_id);

CREATE TABLE IF NOT EXISTS audit_log (
	id         BIGSERIAL PRIMARY KEY,
	actor_id   BIGINT NOT NULL,
	actor_name TEXT NOT NULL,
	action     TEXT NOT NULL,
	entity     TEXT NOT NULL,
	details    TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS rate_limits (
	rl_key       TEXT PRIMARY KEY,
	count        INTEGER NOT NULL,
	window_start TIMESTAMPTZ NOT NULL,
	expires_at   TIMESTAMPTZ NOT NULL
);
`

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schema); err != nil {
		logger.Error("failed to create schema", "error", err)
		os.Exit(1)
	}
	logger.Info("schema ready")

	seedUsers(ctx, postgres.NewUsersRepo(pool))
	seedDestinations(ctx, postgres.NewDestinationsRepo(pool))
	seedPackages(ctx, postgres.NewPackagesRepo(pool))

	logger.Info("seed complete")
}

func seedUsers(ctx context.Context, repo postgres.UsersRepo) {
	type seedUser struct {
		email    string
		name     string
		role     domain.Role
		password string
	}

	users := []seedUser{
		{
			email:    "info.floripafacil@gmail.com",
			name:     "Dueño Floripa",
			role:     domain.RoleOwner,
			password: os.Getenv("SEED_OWNER_PASSWORD"),
		},
		{
			email:    "admin@floripafacil.com",
			name:     "Admin General",
			role:     domain.RoleAdmin,
			password: os.Getenv("SEED_ADMIN_PASSWORD"),
		},
		{
			email:    "ventas@floripafacil.com",
			name:     "Vendedor Top",
			role:     domain.RoleSales,
			password: os.Getenv("SEED_SALES_PASSWORD"),
		},
	}

	for _, su := range users {
		if su.password == "" {
			su.password = "changeme-" + string(su.role)
			logger.Warn("no seed password set, using placeholder", "email", su.email)
		}
		if _, err := repo.FindByEmail(ctx, su.email); err == nil {
			logger.Info("user exists, skipping", "email", su.email)
			continue
		}
		hash, err := argon2id.CreateHash(su.password, argon2id.DefaultParams)
		if err != nil {
			logger.Error("failed to hash seed password", "email", su.email, "error", err)
			os.Exit(1)
		}
		u, err := repo.Create(ctx, su.email, hash, su.name, su.role, domain.RoleGrants(su.role))
		if err != nil {
			logger.Error("failed to create seed user", "email", su.email, "error", err)
			os.Exit(1)
		}
		logger.Info("created user", "email", u.Email, "role", u.Role)
	}
}

func seedDestinations(ctx context.Context, repo postgres.DestinationsRepo) {
	destinations := []domain.DestinationUpsertReq{
		{
			ID:           "floripa",
			Name:         "Florianópolis",
			ShortDesc:    "La Isla de la Magia",
			Description:  "La capital de Santa Catarina, famosa por sus 42 playas, mariscos frescos y vida nocturna. Ideal para familias y surfistas.",
			TravelerType: "Familias, Parejas y Aventureros",
			Image:        "https://images.unsplash.com/photo-1473448912268-2022ce9509d8?q=80&w=2041&auto=format&fit=crop",
			Attractions:  []string{"Playa Joaquina", "Barra da Lagoa", "Centro Histórico", "Ilha do Campeche"},
			Gallery: []string{
				"https://images.unsplash.com/photo-1596395819057-d375222c7f5a?q=80&w=800",
				"https://images.unsplash.com/photo-1626456729562-b25859591448?q=80&w=800",
			},
		},
		{
			ID:           "bombinhas",
			Name:         "Bombinhas",
			ShortDesc:    "El caribe brasileño",
			Description:  "Un paraíso ecológico con aguas cristalinas, ideal para buceo y relax total. Destino tranquilo y seguro.",
			TravelerType: "Relax, Amantes de la naturaleza",
			Image:        "https://images.unsplash.com/photo-1592257008323-2895f32b7246?q=80&w=2070&auto=format&fit=crop",
			Attractions:  []string{"4 Ilhas", "Playa Sepultura", "Mariscal", "Mirador Eco 360"},
			Gallery: []string{
				"https://images.unsplash.com/photo-1552250550-9602bc629325?q=80&w=800",
				"https://images.unsplash.com/photo-1544979140-58d39f2eb50e?q=80&w=800",
			},
		},
		{
			ID:           "camboriu",
			Name:         "Balneário Camboriú",
			ShortDesc:    "La Dubai brasileña",
			Description:  "Rascacielos frente al mar, teleféricos y mucha diversión nocturna. La mezcla perfecta entre ciudad y playa.",
			TravelerType: "Jóvenes, Grupos, Familias activas",
			Image:        "https://images.unsplash.com/photo-1565034873752-9694eb1019a3?q=80&w=1974&auto=format&fit=crop",
			Attractions:  []string{"Parque Unipraias", "Barco Pirata", "Rueda Gigante", "Playa Central"},
			Gallery: []string{
				"https://images.unsplash.com/photo-1588691517446-c74377b55f52?q=80&w=800",
				"https://images.unsplash.com/photo-1518659426914-99607144e59c?q=80&w=800",
			},
		},
	}

	for _, d := range destinations {
		if _, err := repo.Upsert(ctx, &d); err != nil {
			logger.Error("failed to seed destination", "id", d.ID, "error", err)
			os.Exit(1)
		}
		logger.Info("seeded destination", "id", d.ID)
	}
}

func seedPackages(ctx context.Context, repo postgres.PackagesRepo) {
	packages := []domain.PackageUpsertReq{
		{
			ID:            "bombinhas-relax",
			Title:         "Bombinhas Relax",
			Subtitle:      "El más vendido",
			DestinationID: "bombinhas",
			Destinations:  []string{"Florianópolis", "Bombinhas"},
			PriceUSD:      220,
			IsBestSeller:  true,
			Features: []string{
				"Traslado Florianópolis ↔ Bombinhas",
				"Excursión playas de Bombinhas + 4 Ilhas",
				"Asistencia en español 24/7",
				"Coordinador en destino",
			},
			Image: "https://images.unsplash.com/photo-1540206351-d6465b3ac5c1?q=80&w=2064&auto=format&fit=crop",
		},
		{
			ID:            "camboriu-esencial",
			Title:         "Camboriú Esencial",
			Subtitle:      "Diversión asegurada",
			DestinationID: "camboriu",
			Destinations:  []string{"Florianópolis", "Camboriú"},
			PriceUSD:      210,
			Features: []string{
				"Traslado Florianópolis ↔ Camboriú",
				"City Tour Panorámico",
				"Entrada a Parque Unipraias (Opcional)",
				"Asistencia en español",
			},
			Image: "https://images.unsplash.com/photo-1555992984-25785a720db1?q=80&w=1974&auto=format&fit=crop",
		},
		{
			ID:            "combo-2-destinos-premium",
			Title:         "Bombinhas + Camboriú Premium",
			Subtitle:      "Lo mejor de dos mundos",
			DestinationID: "combo",
			Destinations:  []string{"Bombinhas", "Camboriú"},
			PriceUSD:      450,
			Features: []string{
				"Traslados entre destinos",
				"3 Noches en Bombinhas",
				"3 Noches en Camboriú",
				"Excursión Barco Pirata",
			},
			Image: "https://images.unsplash.com/photo-1518182170546-0766bd6f6a56?q=80&w=2061&auto=format&fit=crop",
		},
	}

	for _, p := range packages {
		if _, err := repo.Upsert(ctx, &p); err != nil {
			logger.Error("failed to seed package", "id", p.ID, "error", err)
			os.Exit(1)
		}
		logger.Info("seeded package", "id", p.ID)
	}
}
