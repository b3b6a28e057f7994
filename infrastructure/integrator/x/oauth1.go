package x

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// buildOAuthHeader monta o header Authorization OAuth1 com assinatura
// PLAINTEXT (RFC 5849 §3.4.4). Todas as chamadas à Ads API vão por TLS, o
// que dispensa a assinatura HMAC sobre a base string e mantém o header
// independente da requisição.
func buildOAuthHeader(consumerKey, consumerSecret, accessToken, accessSecret string) string {
	nonce, err := gonanoid.New(32)
	if err != nil {
		nonce = strconv.FormatInt(time.Now().UnixNano(), 16)
	}

	signature := url.QueryEscape(consumerSecret) + "&" + url.QueryEscape(accessSecret)

	return fmt.Sprintf(
		`OAuth oauth_consumer_key="%s", oauth_nonce="%s", oauth_signature="%s", oauth_signature_method="PLAINTEXT", oauth_timestamp="%d", oauth_token="%s", oauth_version="1.0"`,
		url.QueryEscape(consumerKey),
		nonce,
		url.QueryEscape(signature),
		time.Now().Unix(),
		url.QueryEscape(accessToken),
	)
}
