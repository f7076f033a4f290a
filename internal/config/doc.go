// Package config handles configuration loading for the convene server.
//
// Configuration is loaded from YAML files with environment variable
// expansion (${VAR_NAME}) and Go duration syntax for TTL fields:
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//
//	database:
//	  path: "/var/lib/convene/convene.db"
//
//	redis:
//	  enabled: false
//	  addr: "127.0.0.1:6379"
//
//	auth:
//	  jwt_secret: "${CONVENE_JWT_SECRET}"
//	  access_token_ttl: "15m"
//	  signup_token_ttl: "24h"
//
//	chatbot:
//	  enabled: false
//	  endpoint: "https://myresource.openai.azure.com"
//	  deployment: "gpt-4"
//	  api_version: "2024-02-01"
//	  api_key: "${AZURE_OPENAI_KEY}"
//	  session_idle_ttl: "1h"
//	  sweep_interval: "5m"
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// Load() validates required fields and applies defaults for absent TTLs.
package config
