package domain

import "fmt"

// Platform identifica a plataforma de anúncios de destino de uma campanha
type Platform string

const (
	PlatformMeta     Platform = "meta"
	PlatformX        Platform = "x"
	PlatformGoogle   Platform = "google"
	PlatformTikTok   Platform = "tiktok"
	PlatformSnapchat Platform = "snapchat"
)

// AllPlatforms lista todas as plataformas suportadas pelo gateway
var AllPlatforms = []Platform{
	PlatformMeta,
	PlatformX,
	PlatformGoogle,
	PlatformTikTok,
	PlatformSnapchat,
}

// ParsePlatform converte uma string em Platform, validando contra a lista suportada
func ParsePlatform(s string) (Platform, error) {
	p := Platform(s)
	for _, known := range AllPlatforms {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("plataforma desconhecida: %q", s)
}

func (p Platform) String() string {
	return string(p)
}
