package urls

// Documentation links printed next to troubleshooting hints.
// All URLs point to the Home Assistant documentation sites.

// LongLivedTokens explains how to create the access token used as HA_TOKEN.
const LongLivedTokens = "https://www.home-assistant.io/docs/authentication/#your-account-profile"

// RESTAPI documents the endpoints the dashboard calls.
const RESTAPI = "https://developers.home-assistant.io/docs/api/rest/"

// APIIntegration covers enabling the REST API on the server.
const APIIntegration = "https://www.home-assistant.io/integrations/api/"

// Zeroconf covers the mDNS announcement that 'hatui discover' browses for.
const Zeroconf = "https://www.home-assistant.io/integrations/zeroconf/"
