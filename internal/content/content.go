// Package content holds every line the robot says and the plan used to
// warm the narration cache at startup.
package content

import (
	"fmt"
	"math/rand/v2"

	"github.com/minikastronot/minik/internal/progress"
)

// NarratorVoice speaks intros and shared feedback during preloading.
const NarratorVoice = "Kore"

// Host and map lines.
const (
	DefaultIntro  = "Hadi oynayalım!"
	LockedPlanet  = "Bu gezegen henüz kilitli. Önce diğerlerini tamamla!"
	StartLine     = "Başarılar!"
	RestartLine   = "Tekrar deneyelim!"
	FailLine      = "Görev başarısız oldu. Tekrar deneyelim!"
	ListeningText = "DİNLENİYOR..."
	StartButton   = "BAŞLA"
	LoadingImage  = "Yeni gezegen keşfediliyor..."

	FailTitle    = "GÖREV BAŞARISIZ"
	FailSubtitle = "Biraz daha dikkate ihtiyacımız var!"
	TryAgain     = "Tekrar Dene"
	WinTitle     = "GÖREV BAŞARILI!"
	WinSubtitle  = "Harika bir iş çıkardın!"
	NextPlanet   = "Sonraki Gezegen"
	BackToSystem = "Güneş Sistemine Dön"
	PlayAgain    = "Tekrar Oyna"
)

// WinLine is narrated after a successful mission.
func WinLine(stars int) string {
	return fmt.Sprintf("Görevi tamamladın! %d yıldız kazandın!", stars)
}

var intros = map[progress.PlanetID]string{
	progress.Mercury: "Merkür çok sıcak! Kırmızı meteorlara sakın dokunma, sadece mavi taşları topla.",
	progress.Venus:   "Venüs'ün müziğini dinle. Renkler hangi sırayla yandıysa, sen de aynısını yap.",
	progress.Earth:   "Dünya'nın resmi karışmış! Parçaları sağdaki kutudan al ve doğru yerlere koyarak resmi tamamla.",
	progress.Mars:    "Mars'ta kaç tane yıldız var? Sayılarına dikkat et ve doğru cevabı seç.",
	progress.Jupiter: "Jüpiter'de hafıza oyunu! Kartları çevir ve aynı resimleri eşleştir.",
	progress.Saturn:  "Satürn'ün halkasındaki deseni görüyor musun? Sırada hangi şekil olmalı?",
	progress.Uranus:  "Uranüs'te köstebek yakalamaca! Karakterler deliklerden çıkınca hemen üzerlerine dokun.",
	progress.Neptune: "Neptün labirentinde kaybolmadan çıkışı bul. Ok tuşlarını kullanarak roketi yönet.",
	progress.Pluto:   "Plüton'un şifresini çözelim. İpuçlarına bak, hangi sembol hangi sayıymış bul.",
}

// Intro returns the narrated introduction of a planet, or DefaultIntro.
func Intro(id progress.PlanetID) string {
	if s, ok := intros[id]; ok {
		return s
	}
	return DefaultIntro
}

// Praise lines are picked at random after a correct answer.
var Praise = []string{
	"Harikasın küçük astronot!",
	"Süper gidiyorsun!",
	"İşte böyle!",
	"Müthişsin!",
	"Çok akıllısın!",
	"Yıldızlar kadar parlaksın!",
}

// Retry lines are picked at random after a wrong answer.
var Retry = []string{
	"Bir daha deneyelim mi?",
	"Az kaldı, tekrar dene!",
	"Pes etmek yok, başarabilirsin!",
	"Dikkatli bak, bulabilirsin.",
}

// CommonFeedback is warmed in the narrator voice at startup. It keeps the
// historical spelling "Müthisşin!" which differs from the praise list, so
// that entry is fetched on first use.
var CommonFeedback = []string{
	"Harikasın küçük astronot!",
	"Süper gidiyorsun!",
	"İşte böyle!",
	"Müthisşin!",
	"Çok akıllısın!",
	"Yıldızlar kadar parlaksın!",
	"Bir daha deneyelim mi?",
	"Az kaldı, tekrar dene!",
	"Pes etmek yok, başarabilirsin!",
	"Dikkatli bak, bulabilirsin.",
	"Doğru!",
	"Hata oldu, dikkatli izle!",
	"Harika!",
	"Temizlendi!",
	"Süper!",
}

// RandomPraise picks a praise line.
func RandomPraise(r *rand.Rand) string {
	return Praise[r.IntN(len(Praise))]
}

// RandomRetry picks a retry line.
func RandomRetry(r *rand.Rand) string {
	return Retry[r.IntN(len(Retry))]
}
