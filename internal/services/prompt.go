package services

import (
	"fmt"
	"strings"

	"synergy-backend/internal/models"
)

// Section headers of the system prompt, in the order they appear.
const (
	SectionProfile       = "📝 PROFIL MAHASISWA:"
	SectionSchedules     = "📚 JADWAL KULIAH TERDEKAT:"
	SectionTasks         = "✅ TUGAS/DEADLINE TERDEKAT:"
	SectionOrganizations = "🏢 ORGANISASI AKTIF:"
	SectionCompetitions  = "🏆 KOMPETISI/LOMBA TERBARU:"
	SectionProjects      = "💼 JUMLAH PROJECT:"
)

const personaPreamble = `Kamu adalah asisten AI untuk aplikasi myITS Synergy, aplikasi manajemen akademik dan organisasi mahasiswa ITS (Institut Teknologi Sepuluh Nopember) Surabaya.

📋 IDENTITAS & KARAKTER:
- Nama: Synergy AI Assistant
- Personality: Friendly, supportive, sedikit santai tapi tetap profesional
- Bahasa: Bahasa Indonesia yang natural (boleh campur sedikit bahasa gaul mahasiswa)
- Tone: Seperti kakak tingkat yang helpful dan care

🎯 TUGASMU:
1. Membantu mahasiswa mengelola waktu antara kuliah, organisasi, kompetisi, dan project
2. Memberikan saran yang realistis dan actionable
3. Menganalisis data mereka untuk memberikan insight yang berguna
4. Menjadi decision-making partner (bukan hanya motivator)
5. Mengingatkan tentang deadline dan workload

⚠️ ATURAN PENTING:
- Jangan berpura-pura tahu informasi yang tidak ada di context
- Jika diminta data spesifik yang tidak tersedia, katakan dengan jujur
- Berikan jawaban yang konkret dan spesifik, bukan cuma generik
- Fokus pada produktivitas dan work-life balance
- Hindari jargon yang terlalu teknis kecuali diminta
- Gunakan emoji secukupnya untuk friendly vibes

`

const groundingInstruction = "Gunakan informasi di atas untuk memberikan respon yang RELEVAN dan PERSONAL. " +
	"Jika mahasiswa bertanya tentang jadwalnya, analisis dari data di atas. " +
	"Jika bertanya keputusan, pertimbangkan workload mereka.\n"

// BuildSystemPrompt renders the persona preamble, one section per populated
// context field, and the closing instruction. It is deterministic and never
// mentions a field that is absent.
func BuildSystemPrompt(uc models.UserContext) string {
	var b strings.Builder
	b.WriteString(personaPreamble)

	if p := uc.Profile; p != nil {
		b.WriteString("\n" + SectionProfile + "\n")
		fmt.Fprintf(&b, "- Nama: %s\n", p.FullName)
		fmt.Fprintf(&b, "- NPM: %s\n", p.NPM)
		fmt.Fprintf(&b, "- Jurusan: %s\n", p.Major)
		if p.IntakeYear > 0 {
			fmt.Fprintf(&b, "- Angkatan: %d\n", p.IntakeYear)
		}
		if uc.CurrentSemester != "" {
			fmt.Fprintf(&b, "- %s\n", uc.CurrentSemester)
		}
	}

	if len(uc.UpcomingSchedules) > 0 {
		b.WriteString("\n" + SectionSchedules + "\n")
		for _, s := range uc.UpcomingSchedules {
			fmt.Fprintf(&b, "- %s (%s, %s-%s)\n", s.CourseName, s.ScheduleDay, s.StartTime, s.EndTime)
		}
	}

	if len(uc.UpcomingTasks) > 0 {
		b.WriteString("\n" + SectionTasks + "\n")
		for _, t := range uc.UpcomingTasks {
			fmt.Fprintf(&b, "- %s (Due: %s, Priority: %s)\n", t.Title, t.DueDate, t.Priority)
		}
	}

	if len(uc.ActiveOrganizations) > 0 {
		b.WriteString("\n" + SectionOrganizations + "\n")
		for _, o := range uc.ActiveOrganizations {
			fmt.Fprintf(&b, "- %s (%s)\n", o.OrganizationName, o.Role)
		}
	}

	if len(uc.RecentCompetitions) > 0 {
		b.WriteString("\n" + SectionCompetitions + "\n")
		for _, c := range uc.RecentCompetitions {
			fmt.Fprintf(&b, "- %s (%s)\n", c.CompetitionName, c.Status)
		}
	}

	if uc.ProjectsCount != nil {
		fmt.Fprintf(&b, "\n%s %d\n", SectionProjects, *uc.ProjectsCount)
	}

	b.WriteString("\n---\n")
	b.WriteString(groundingInstruction)
	return b.String()
}
