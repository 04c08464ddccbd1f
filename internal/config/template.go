package config

// DefaultTOML is the file written by 'gcgcards config init'
const DefaultTOML = `# gcgcards configuration

[backend]
# Query/update endpoint of the card spreadsheet API.
# Can also be set with the GCG_API_BASE_URL environment variable.
base_url = ""
timeout = ""              # e.g. "15s"; empty means no timeout
requests_per_second = 0   # 0 disables client-side rate limiting
default_limit = "1000"

[display]
# {cardNo} is replaced with the card number
image_fallback_url = "https://www.gundam-gcg.com/jp/images/cards/card/{cardNo}.webp"

[database]
# Local journal of weighted-adjustment saves
path = "~/.local/share/gcgcards/journal.db"
journal = true

[server]
addr = "127.0.0.1:8650"

[log]
level = "info"       # debug, info, warn, error
format = "console"   # console, json

[mcp]
enabled = true
transport = "stdio"
`
