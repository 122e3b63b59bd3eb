package pool

import (
	"encoding/json"

	"github.com/eburns009/ephemeris-service/internal/compute"
	"github.com/eburns009/ephemeris-service/internal/workerproto"
)

func marshalJob(req compute.Request) (json.RawMessage, error) {
	return json.Marshal(workerproto.JobPayload{Request: req})
}

func unmarshalReply(msg workerproto.Message) jobReply {
	switch msg.Kind {
	case workerproto.KindResult:
		var p workerproto.ResultPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return jobReply{err: err}
		}
		return jobReply{result: p.Result}
	case workerproto.KindError:
		var p workerproto.ErrorPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return jobReply{err: err}
		}
		return jobReply{err: errorFromCode(p.Code, p.Message)}
	default:
		return jobReply{err: unexpectedKindError(msg.Kind)}
	}
}
