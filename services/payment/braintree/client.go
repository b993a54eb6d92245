package braintree

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "log"
    "net/http"
    "strings"
    "time"
)

const (
    SandboxEndpoint    = "https://api.sandbox.braintreegateway.com"
    ProductionEndpoint = "https://api.braintreegateway.com"
    RequestTimeout     = 30 * time.Second
)

type Client struct {
    merchantID  string
    publicKey   string
    privateKey  string
    environment string
    baseURL     string
    client      *http.Client
    transport   *http.Transport
}

func NewClient(merchantID, publicKey, privateKey, environment string) *Client {
    transport := &http.Transport{
        MaxIdleConns:        100,
        MaxIdleConnsPerHost: 20,
        MaxConnsPerHost:     100,
        IdleConnTimeout:     90 * time.Second,
        TLSHandshakeTimeout: 10 * time.Second,
    }

    return &Client{
        merchantID:  merchantID,
        publicKey:   publicKey,
        privateKey:  privateKey,
        environment: environment,
        transport:   transport,
        client: &http.Client{
            Timeout:   RequestTimeout,
            Transport: transport,
        },
    }
}

// SetEndpoint overrides the gateway endpoint. Used by tests to point
// the client at a local stub server.
func (c *Client) SetEndpoint(url string) {
    c.baseURL = strings.TrimSuffix(url, "/")
}

func (c *Client) getEndpoint() string {
    if c.baseURL != "" {
        return c.baseURL
    }
    if c.environment == "production" {
        return ProductionEndpoint
    }
    return SandboxEndpoint
}

func (c *Client) resourceURL(resource string) string {
    return fmt.Sprintf("%s/merchants/%s/%s", c.getEndpoint(), c.merchantID, resource)
}

// CreateCustomer stores the donor at the gateway and vaults the payment
// method represented by the nonce.
func (c *Client) CreateCustomer(ctx context.Context, req CustomerRequest) (*Result, error) {
    return c.post(ctx, "customers", customerRequestWrapper{Customer: req})
}

// Sale submits a transaction for settlement.
func (c *Client) Sale(ctx context.Context, req TransactionRequest) (*Result, error) {
    return c.post(ctx, "transactions", transactionRequestWrapper{Transaction: req})
}

// CreateSubscription starts a recurring billing agreement against a
// vaulted payment method.
func (c *Client) CreateSubscription(ctx context.Context, req SubscriptionRequest) (*Result, error) {
    return c.post(ctx, "subscriptions", subscriptionRequestWrapper{Subscription: req})
}

func (c *Client) post(ctx context.Context, resource string, payload interface{}) (*Result, error) {
    startTime := time.Now()

    jsonPayload, err := json.Marshal(payload)
    if err != nil {
        return nil, fmt.Errorf("error marshaling %s request: %v", resource, err)
    }

    reqCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
    defer cancel()

    httpReq, err := http.NewRequestWithContext(reqCtx, "POST", c.resourceURL(resource), bytes.NewBuffer(jsonPayload))
    if err != nil {
        return nil, fmt.Errorf("error creating %s request: %v", resource, err)
    }

    httpReq.SetBasicAuth(c.publicKey, c.privateKey)
    httpReq.Header.Set("Content-Type", "application/json")
    httpReq.Header.Set("Accept", "application/json")
    httpReq.Header.Set("Cache-Control", "no-cache")

    resp, err := c.client.Do(httpReq)
    if err != nil {
        return nil, fmt.Errorf("error making %s request: %v", resource, err)
    }
    defer resp.Body.Close()

    respBody, err := io.ReadAll(resp.Body)
    if err != nil {
        return nil, fmt.Errorf("error reading %s response body: %v", resource, err)
    }

    log.Printf("Braintree %s response received in %v", resource, time.Since(startTime))

    if resp.StatusCode == http.StatusUnauthorized {
        return nil, fmt.Errorf("gateway rejected credentials for merchant %s", c.merchantID)
    }

    // Some gateway responses arrive with a UTF-8 BOM prefix.
    cleanBody := strings.TrimPrefix(string(respBody), "\uFEFF")

    var result Result
    if err := json.Unmarshal([]byte(cleanBody), &result); err != nil {
        return nil, fmt.Errorf("error decoding %s response: %v, response body: %s", resource, err, string(respBody))
    }

    if !result.Success && result.Message == "" {
        result.Message = "Unknown gateway error"
    }

    return &result, nil
}
