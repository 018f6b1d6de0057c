package capture

import "fmt"

// strippingScript returns the javascript injected into every decoy page. It
// intercepts form submission before any leftover page handler runs, clears
// every input synchronously so credentials never leave the browser, posts the
// fixed-shape boolean event to the local submit path and then redirects to the
// learning page. Network access other than the submit path is swallowed.
func strippingScript(learningUrl string) string {
	return fmt.Sprintf(strippingScriptTemplate, SubmitPath, learningUrl)
}

const strippingScriptTemplate = `
(function () {
  var SUBMIT_PATH = %[1]q;
  var LEARNING_URL = %[2]q;

  function trackingToken() {
    try {
      return new URLSearchParams(window.location.search).get("token") || "";
    } catch (e) {
      return "";
    }
  }

  function clearSensitiveFields() {
    var fields = document.querySelectorAll("input, textarea, select");
    for (var i = 0; i < fields.length; i++) {
      var field = fields[i];
      if (field.tagName === "SELECT") {
        field.selectedIndex = -1;
      } else if (field.type === "checkbox" || field.type === "radio") {
        field.checked = false;
      } else {
        field.value = "";
      }
    }
  }

  function redirectToLearning(token) {
    var url = LEARNING_URL;
    if (token !== "") {
      url += (url.indexOf("?") === -1 ? "?" : "&") + "token=" + encodeURIComponent(token);
    }
    window.location.replace(url);
  }

  document.addEventListener(
    "submit",
    function (event) {
      event.preventDefault();
      event.stopImmediatePropagation();

      var token = trackingToken();
      clearSensitiveFields();

      var done = function () { redirectToLearning(token); };
      if (token === "") {
        done();
        return;
      }
      try {
        window
          .fetch(SUBMIT_PATH, {
            method: "POST",
            headers: { "Content-Type": "application/json" },
            body: JSON.stringify({ token: token, submitted: true }),
            keepalive: true,
          })
          .then(done, done);
      } catch (e) {
        done();
      }
    },
    true
  );

  var realFetch = window.fetch.bind(window);
  window.fetch = function (resource) {
    var url = typeof resource === "string" ? resource : (resource && resource.url) || "";
    if (url.indexOf(SUBMIT_PATH) === 0) {
      return realFetch.apply(window, arguments);
    }
    return Promise.resolve(new Response(null, { status: 204 }));
  };

  var realOpen = XMLHttpRequest.prototype.open;
  XMLHttpRequest.prototype.open = function (method, url) {
    if (typeof url === "string" && url.indexOf(SUBMIT_PATH) === 0) {
      return realOpen.apply(this, arguments);
    }
    this.send = function () {};
    return realOpen.call(this, method, "about:blank");
  };
})();
`
