package lambda

import (
	"encoding/base64"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
)

// FromAPIGatewayProxy converts an API Gateway proxy event into a Request.
// Single-value maps win over their multi-value counterparts.
func FromAPIGatewayProxy(event events.APIGatewayProxyRequest) (*Request, error) {
	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 body: %w", err)
		}
		body = decoded
	}

	return &Request{
		Method:      event.HTTPMethod,
		Path:        event.Path,
		Headers:     mergeValues(event.Headers, event.MultiValueHeaders),
		QueryParams: mergeValues(event.QueryStringParameters, event.MultiValueQueryStringParameters),
		Body:        body,
		PathParams:  event.PathParameters,
	}, nil
}

// ToAPIGatewayProxy converts a Response into an API Gateway proxy response
func (r *Response) ToAPIGatewayProxy() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: r.StatusCode,
		Headers:    r.Headers,
		Body:       string(r.Body),
	}
}

func mergeValues(single map[string]string, multi map[string][]string) map[string]string {
	merged := make(map[string]string, len(single)+len(multi))
	for k, vs := range multi {
		if len(vs) > 0 {
			merged[k] = vs[0]
		}
	}
	for k, v := range single {
		merged[k] = v
	}
	return merged
}
