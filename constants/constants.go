package constants

import (
	"flag"
)

var (
	OauthClientId     string
	OauthClientSecret string
	OauthRedirectUrl  string
	FrontendUrl       string
	ListenAddr        string
	DbHost            string
	DbPort            int
	DbUser            string
	DbPassword        string
	DbName            string
)

func init() {
	flag.StringVar(&OauthClientId, "oauth_client_id", "dummy", "oauth client id")
	flag.StringVar(&OauthClientSecret, "oauth_client_secret", "dummy", "oauth client secret")
	flag.StringVar(&OauthRedirectUrl, "oauth_redirect_url", "http://localhost:8090/api/auth/callback", "redirect URL registered with the oauth client")
	flag.StringVar(&FrontendUrl, "frontend_url", "http://localhost:5173", "URLs allowlisted by UI for CORS.")
	flag.StringVar(&ListenAddr, "listen_addr", ":8090", "address for the web server to listen on")
	flag.StringVar(&DbHost, "db_host", "", "postgres host for cleanup history. Empty disables history.")
	flag.IntVar(&DbPort, "db_port", 5432, "postgres port")
	flag.StringVar(&DbUser, "db_user", "cleanup", "postgres user")
	flag.StringVar(&DbPassword, "db_password", "cleanup", "postgres password")
	flag.StringVar(&DbName, "db_name", "cleanup_db", "postgres database name")
}
