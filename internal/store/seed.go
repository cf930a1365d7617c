package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/pln-intern-api/internal/models"
)

// SeedData is the built-in dataset used for first-run initialization and
// administrative reset.
type SeedData struct {
	Mentors []models.Mentor
	Interns []models.Intern
	Gallery []models.GalleryPhoto
}

func (d *SeedData) collection(name string) ([]byte, error) {
	switch name {
	case CollectionMentors:
		return EncodeList(d.Mentors)
	case CollectionInterns:
		return EncodeList(d.Interns)
	case CollectionGallery:
		return EncodeList(d.Gallery)
	}
	return nil, fmt.Errorf("unknown collection %q", name)
}

// DefaultSeed builds the demo roster. Mentor passwords are bcrypt-hashed
// at build time; the demo credential is "mentor123".
func DefaultSeed() (*SeedData, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("mentor123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	now := time.Now().UTC()

	mentors := []models.Mentor{
		{
			ID:           uuid.NewString(),
			Name:         "Ir. Budi Santoso, M.T.",
			NIP:          "198501012010011001",
			Division:     "Distribusi",
			Position:     "Manager Distribusi",
			Photo:        "https://i.pravatar.cc/400?img=1",
			PasswordHash: string(hash),
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			ID:           uuid.NewString(),
			Name:         "Siti Rahma, S.T., M.Eng",
			NIP:          "198703152011012002",
			Division:     "Teknologi Informasi",
			Position:     "Kepala Seksi TI",
			Photo:        "https://i.pravatar.cc/400?img=2",
			PasswordHash: string(hash),
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			ID:           uuid.NewString(),
			Name:         "Agus Prasetyo, S.T.",
			NIP:          "199002202012011003",
			Division:     "Pembangkitan",
			Position:     "Supervisor Pembangkitan",
			Photo:        "https://i.pravatar.cc/400?img=3",
			PasswordHash: string(hash),
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}

	interns := []models.Intern{
		{
			ID:          uuid.NewString(),
			Name:        "Ahmad Fauzi",
			Phone:       "081234567890",
			Email:       "ahmad.fauzi@email.com",
			Address:     "Jl. Sudirman No. 123, Jakarta Pusat",
			SocialMedia: "@ahmadfauzi",
			School:      "Universitas Indonesia",
			Major:       "Teknik Elektro",
			Location:    "PLN Unit Induk Pembangunan Jakarta",
			Division:    "Distribusi",
			MentorID:    mentors[0].ID,
			PeriodStart: "2024-01-15",
			PeriodEnd:   "2024-03-15",
			Impression:  "Pengalaman yang sangat berharga, belajar banyak tentang sistem distribusi tenaga listrik.",
			Message:     "Terima kasih atas bimbingan dan ilmu yang diberikan.",
			Photo:       "https://i.pravatar.cc/400?img=11",
			GalleryPhotos: []string{
				"https://images.unsplash.com/photo-1560472354-b33ff0c44a43?w=600&h=400&fit=crop",
				"https://images.unsplash.com/photo-1581092795442-6ad9df14126c?w=600&h=400&fit=crop",
			},
			Status:    models.StatusAlumni,
			CreatedAt: now,
		},
		{
			ID:          uuid.NewString(),
			Name:        "Dewi Lestari",
			Phone:       "081234567891",
			Email:       "dewi.lestari@email.com",
			Address:     "Jl. Dago No. 456, Bandung",
			SocialMedia: "@dewilestari",
			School:      "Institut Teknologi Bandung",
			Major:       "Teknik Informatika",
			Location:    "PLN Kantor Pusat",
			Division:    "Teknologi Informasi",
			MentorID:    mentors[1].ID,
			PeriodStart: "2026-02-01",
			PeriodEnd:   "2026-12-01",
			Impression:  "Mendapat insight mendalam tentang transformasi digital.",
			Message:     "Pengalaman magang terbaik!",
			Photo:       "https://i.pravatar.cc/400?img=12",
			GalleryPhotos: []string{
				"https://images.unsplash.com/photo-1581092446943-ec3293a0b0b6?w=600&h=400&fit=crop",
			},
			Status:    models.StatusActive,
			CreatedAt: now,
		},
		{
			ID:            uuid.NewString(),
			Name:          "Rizky Pratama",
			Phone:         "081234567892",
			Email:         "rizky.pratama@email.com",
			Address:       "Jl. Malioboro No. 789, Yogyakarta",
			SocialMedia:   "@rizkypratama",
			School:        "Universitas Gadjah Mada",
			Major:         "Teknik Mesin",
			Location:      "PLN PLTU Paiton",
			Division:      "Pembangkitan",
			MentorID:      mentors[2].ID,
			PeriodStart:   "2026-09-01",
			PeriodEnd:     "2026-11-01",
			Photo:         "https://i.pravatar.cc/400?img=13",
			GalleryPhotos: []string{},
			Status:        models.StatusPending,
			CreatedAt:     now,
		},
	}

	gallery := make([]models.GalleryPhoto, 0)
	for _, intern := range interns {
		for _, photo := range intern.GalleryPhotos {
			gallery = append(gallery, models.GalleryPhoto{
				ID:         uuid.NewString(),
				InternID:   intern.ID,
				InternName: intern.Name,
				Photo:      photo,
				Caption:    fmt.Sprintf("Foto kegiatan %s", intern.Name),
				UploadedAt: intern.CreatedAt,
			})
		}
	}

	// Derived counts must match the intern roster from the start.
	for i := range mentors {
		count := 0
		for _, intern := range interns {
			if intern.MentorID == mentors[i].ID && (intern.Status == models.StatusActive || intern.Status == models.StatusAlumni) {
				count++
			}
		}
		mentors[i].TotalInterns = count
	}

	return &SeedData{Mentors: mentors, Interns: interns, Gallery: gallery}, nil
}
