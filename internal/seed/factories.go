// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"aura/internal/models"
	"aura/internal/slug"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rnd *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// backdate spreads timestamps over the past maxDays so listings look lived-in.
func (f *Factory) backdate(maxDays int) time.Time {
	if maxDays <= 0 {
		maxDays = 90
	}
	return time.Now().
		Add(-time.Duration(f.rnd.Intn(maxDays)) * 24 * time.Hour).
		Add(-time.Duration(f.rnd.Intn(24)) * time.Hour).
		Add(-time.Duration(f.rnd.Intn(60)) * time.Minute)
}

// CreateUser constructs and persists a sample models.User.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    strings.ToLower(gofakeit.Email()),
		Password: string(hashed),
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateAdmin persists a user with the admin flag set.
func (f *Factory) CreateAdmin(email string) (*models.User, error) {
	return f.CreateUser(func(u *models.User) {
		u.Email = email
		u.IsAdmin = true
	})
}

// CreateObra constructs and persists a sample obra. Roughly one in four
// submissions stays pending so the moderation dashboard has content.
func (f *Factory) CreateObra(overrides ...func(*models.Obra)) (*models.Obra, error) {
	key := fmt.Sprintf("%d_%s.jpg", time.Now().UnixMilli(), gofakeit.UUID()[:8])
	obra := &models.Obra{
		Titulo:      gofakeit.BookTitle(),
		Autor:       gofakeit.Name(),
		Descripcion: gofakeit.Paragraph(1, 2, 8, " "),
		Contacto:    "@" + gofakeit.Username(),
		FileURL:     fmt.Sprintf("https://picsum.photos/seed/%s/800/1000", gofakeit.UUID()),
		StorageKey:  key,
		Aprobada:    f.rnd.Intn(4) != 0,
		Fecha:       f.backdate(120),
	}
	if f.rnd.Intn(5) == 0 {
		obra.Autor = models.Anonimo
		obra.Contacto = models.Anonimo
	}

	for _, override := range overrides {
		override(obra)
	}

	if err := f.db.Create(obra).Error; err != nil {
		return nil, err
	}
	return obra, nil
}

// CreateTomo constructs and persists a sample tomo with a slugged title.
func (f *Factory) CreateTomo(overrides ...func(*models.Tomo)) (*models.Tomo, error) {
	titulo := gofakeit.BookTitle()
	images := models.StringList{}
	for i := 0; i < 1+f.rnd.Intn(4); i++ {
		images = append(images, fmt.Sprintf("https://picsum.photos/seed/%s/1080/1400", gofakeit.UUID()))
	}
	tomo := &models.Tomo{
		Titulo:           titulo,
		Slug:             slug.From(titulo),
		ContenidoHTML:    fmt.Sprintf("<p>%s</p>", gofakeit.Paragraph(2, 3, 10, "</p><p>")),
		Autor:            gofakeit.Name(),
		ImagenURL:        images[0],
		ImagenesURLs:     images,
		Borrador:         f.rnd.Intn(3) == 0,
		FechaPublicacion: f.backdate(365),
	}

	for _, override := range overrides {
		override(tomo)
	}

	if err := f.db.Create(tomo).Error; err != nil {
		return nil, err
	}
	return tomo, nil
}

// CreateContenido constructs and persists a sample exclusive-content item.
func (f *Factory) CreateContenido(overrides ...func(*models.ContenidoExclusivo)) (*models.ContenidoExclusivo, error) {
	tipos := []string{models.TipoImagen, models.TipoVideo, models.TipoDocumento}
	contenido := &models.ContenidoExclusivo{
		Titulo:      gofakeit.BookTitle(),
		Descripcion: gofakeit.Sentence(12),
		Tipo:        tipos[f.rnd.Intn(len(tipos))],
		FileURL:     fmt.Sprintf("https://picsum.photos/seed/%s/1080/1080", gofakeit.UUID()),
		StorageKey:  fmt.Sprintf("%d_%s.bin", time.Now().UnixMilli(), gofakeit.UUID()[:8]),
		Aprobada:    f.rnd.Intn(4) != 0,
	}

	for _, override := range overrides {
		override(contenido)
	}

	if err := f.db.Create(contenido).Error; err != nil {
		return nil, err
	}
	return contenido, nil
}

// LikeObra records a like from the given user and bumps the counter the same
// way the live toggle path does.
func (f *Factory) LikeObra(userID, obraID uint) error {
	if err := f.db.Create(&models.ObraLike{UserID: userID, ObraID: obraID}).Error; err != nil {
		return err
	}
	return f.db.Model(&models.Obra{}).
		Where("id = ?", obraID).
		UpdateColumn("likes", gorm.Expr("likes + 1")).Error
}
