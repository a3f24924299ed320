package seed

import (
	"fmt"
	"log"

	"aura/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers     int
	NumObras     int
	NumTomos     int
	NumContenido int
	ShouldClean  bool
}

// Seeder populates the database with demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a new Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll removes every seeded row. Like rows go first so foreign keys
// never dangle mid-wipe.
func (s *Seeder) ClearAll() error {
	tables := []interface{}{
		&models.ObraLike{},
		&models.ContenidoLike{},
		&models.Obra{},
		&models.ContenidoExclusivo{},
		&models.Tomo{},
		&models.Administrador{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}
	}
	log.Println("Database cleared")
	return nil
}

// Seed populates the gallery, the tomo archive, and the exclusive-content
// catalog, then sprinkles likes from the generated users.
func (s *Seeder) Seed(opts Options) error {
	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return fmt.Errorf("seeding users: %w", err)
		}
		users = append(users, user)
	}

	if _, err := s.factory.CreateAdmin("admin@aura.dev"); err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}

	obras := make([]*models.Obra, 0, opts.NumObras)
	for i := 0; i < opts.NumObras; i++ {
		obra, err := s.factory.CreateObra()
		if err != nil {
			return fmt.Errorf("seeding obras: %w", err)
		}
		obras = append(obras, obra)
	}

	for i := 0; i < opts.NumTomos; i++ {
		if _, err := s.factory.CreateTomo(); err != nil {
			return fmt.Errorf("seeding tomos: %w", err)
		}
	}

	for i := 0; i < opts.NumContenido; i++ {
		if _, err := s.factory.CreateContenido(); err != nil {
			return fmt.Errorf("seeding contenido: %w", err)
		}
	}

	// Each user likes a handful of approved obras.
	liked := 0
	for _, user := range users {
		for _, obra := range obras {
			if !obra.Aprobada || s.factory.rnd.Intn(5) != 0 {
				continue
			}
			if err := s.factory.LikeObra(user.ID, obra.ID); err != nil {
				return fmt.Errorf("seeding likes: %w", err)
			}
			liked++
		}
	}

	log.Printf("Seeded %d users, %d obras, %d tomos, %d contenido, %d likes",
		len(users), len(obras), opts.NumTomos, opts.NumContenido, liked)
	return nil
}
